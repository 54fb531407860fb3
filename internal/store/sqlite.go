package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query_hash TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	cached_at  INTEGER NOT NULL
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	var cachedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, cached_at FROM geocode_cache WHERE query_hash = ?`, key,
	).Scan(&payload, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: get geocode")
	}
	if expired(time.Unix(cachedAt, 0), s.now(), s.ttl) {
		return nil, false, nil
	}
	return []byte(payload), true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (query_hash, payload, cached_at) VALUES (?, ?, ?)
		ON CONFLICT (query_hash) DO UPDATE SET payload = excluded.payload, cached_at = excluded.cached_at`,
		key, string(payload), s.now().Unix(),
	)
	return eris.Wrap(err, "sqlite: put geocode")
}
