package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of *pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
	ttl  time.Duration
	now  func() time.Time
}

// NewPostgres creates a PostgresStore with a small connection pool.
func NewPostgres(ctx context.Context, connString string, ttl time.Duration) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, ttl: ttl, now: time.Now}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query_hash TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	var cachedAt time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT payload, cached_at FROM geocode_cache WHERE query_hash = $1`, key,
	).Scan(&payload, &cachedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "postgres: get geocode")
	}
	if expired(cachedAt, s.now(), s.ttl) {
		return nil, false, nil
	}
	return payload, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, payload []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO geocode_cache (query_hash, payload, cached_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (query_hash) DO UPDATE SET
			payload = EXCLUDED.payload,
			cached_at = EXCLUDED.cached_at`,
		key, payload, s.now().UTC(),
	)
	return eris.Wrap(err, "postgres: put geocode")
}
