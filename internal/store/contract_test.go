package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cowbull-server/internal/store"
	"github.com/robalobadob/cowbull-server/internal/store/storetest"
)

func TestMemoryContract(t *testing.T) {
	storetest.RunContract(t, store.NewMemory())
}

func TestRedisContract(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := store.NewRedisFromClient(client)
	defer s.Close()
	storetest.RunContract(t, s)
}

func TestSQLiteContract(t *testing.T) {
	s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "cowbull.db"))
	require.NoError(t, err)
	defer s.Close()
	storetest.RunContract(t, s)
}

func TestFileContract(t *testing.T) {
	s, err := store.NewFile(filepath.Join(t.TempDir(), "games"))
	require.NoError(t, err)
	storetest.RunContract(t, s)
}

// Set COWBULL_TEST_POSTGRES_DSN to run against a live server.
func TestPostgresContract(t *testing.T) {
	dsn := os.Getenv("COWBULL_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("COWBULL_TEST_POSTGRES_DSN not set")
	}
	s, err := store.OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()
	storetest.RunContract(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := store.Open(ctx, store.Options{})
	require.NoError(t, err)
	require.IsType(t, &store.Memory{}, s)

	mr := miniredis.RunT(t)
	s, err = store.Open(ctx, store.Options{Backend: "Redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	require.IsType(t, &store.Redis{}, s)
	require.NoError(t, s.Close())

	s, err = store.Open(ctx, store.Options{Backend: store.BackendFile, FileDir: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &store.File{}, s)

	s, err = store.Open(ctx, store.Options{Backend: store.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	require.IsType(t, &store.SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = store.Open(ctx, store.Options{Backend: "mongo"})
	require.ErrorIs(t, err, store.ErrUnknownBackend)

	_, err = store.Open(ctx, store.Options{Backend: store.BackendPostgres})
	require.Error(t, err)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = store.Open(context.Background(), store.Options{Backend: store.BackendRedis, RedisAddr: addr})
	require.Error(t, err)
}
