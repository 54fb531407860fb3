package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T, ttl time.Duration) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestNewSQLite_WAL(t *testing.T) {
	s := newTestSQLite(t, 0)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestNewSQLite_InvalidPath(t *testing.T) {
	_, err := NewSQLite("/nonexistent/dir/subdir/cache.db", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestSQLiteStore_GetPut(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t, 0)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "k", []byte(`[{"lat":1}]`)))
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"lat":1}]`, string(got))

	require.NoError(t, s.Put(ctx, "k", []byte(`[]`)))
	got, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(got))
}

func TestSQLiteStore_TTL(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t, 24*time.Hour)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	require.NoError(t, s.Put(ctx, "k", []byte("x")))

	s.now = func() time.Time { return base.Add(23 * time.Hour) }
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	s.now = func() time.Time { return base.Add(25 * time.Hour) }
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	s1, err := NewSQLite(path, 0)
	require.NoError(t, err)
	require.NoError(t, s1.Migrate(ctx))
	require.NoError(t, s1.Put(ctx, "k", []byte("v")))
	require.NoError(t, s1.Close())

	s2, err := NewSQLite(path, 0)
	require.NoError(t, err)
	t.Cleanup(func() { s2.Close() }) //nolint:errcheck
	require.NoError(t, s2.Migrate(ctx))

	got, ok, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: DriverNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "c.db"), TTLDays: 30})
	require.NoError(t, err)
	require.NotNil(t, s)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	assert.Equal(t, 30*24*time.Hour, s.(*SQLiteStore).ttl)

	_, err = Open(ctx, Config{Driver: "redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestConfig_TTL(t *testing.T) {
	assert.Equal(t, time.Duration(0), Config{}.TTL())
	assert.Equal(t, time.Duration(0), Config{TTLDays: -3}.TTL())
	assert.Equal(t, 48*time.Hour, Config{TTLDays: 2}.TTL())
}
