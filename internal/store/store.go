// Package store persists geocoding responses so repeated runs do not call the
// geocoding API for addresses already resolved.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// Store is a key/value cache of encoded geocoding responses.
type Store interface {
	// Get returns the payload stored under key. ok is false when the key is
	// missing or older than the store's TTL.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	Put(ctx context.Context, key string, payload []byte) error

	Migrate(ctx context.Context) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Config selects and configures a store.
type Config struct {
	Driver      string
	Path        string
	DatabaseURL string
	TTLDays     int
}

// TTL converts TTLDays to a duration. Zero means entries never expire.
func (c Config) TTL() time.Duration {
	if c.TTLDays <= 0 {
		return 0
	}
	return time.Duration(c.TTLDays) * 24 * time.Hour
}

// Open creates and migrates the store named by cfg.Driver. It returns nil
// for DriverNone or an empty driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "", DriverNone:
		return nil, nil
	case DriverSQLite:
		s, err = NewSQLite(cfg.Path, cfg.TTL())
	case DriverPostgres:
		s, err = NewPostgres(ctx, cfg.DatabaseURL, cfg.TTL())
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// expired reports whether an entry cached at cachedAt is past ttl.
func expired(cachedAt, now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(cachedAt) > ttl
}
