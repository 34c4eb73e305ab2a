package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := NewMemory()
	m.now = clock.now

	require.NoError(t, m.Save(ctx, "short", "a", time.Minute))
	require.NoError(t, m.Save(ctx, "forever", "b", 0))

	clock.advance(59 * time.Second)
	got, err := m.Load(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	clock.advance(time.Second)
	_, err = m.Load(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, m.Len())

	clock.advance(24 * time.Hour)
	got, err = m.Load(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}

func TestSQLite_Expiry(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "cowbull.db"))
	require.NoError(t, err)
	defer s.Close()

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s.now = clock.now

	require.NoError(t, s.Save(ctx, "k", "blob", time.Hour))
	clock.advance(time.Hour)
	_, err = s.Load(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Saving anything purges the expired row; a fresh save revives the key.
	require.NoError(t, s.Save(ctx, "other", "x", 0))
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(1) FROM games WHERE game_key = 'k'`).Scan(&n))
	assert.Equal(t, 0, n)

	require.NoError(t, s.Save(ctx, "k", "again", time.Hour))
	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "again", got)
}

func TestSQLite_MigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cowbull.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "k", "blob", 0))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "blob", got)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestRedis_ExpiryAndPrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	s := NewRedisFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	defer s.Close()

	require.NoError(t, s.Save(ctx, "abc", "blob", time.Hour))
	assert.True(t, mr.Exists("cowbull:game:abc"))
	assert.Equal(t, time.Hour, mr.TTL("cowbull:game:abc"))

	mr.FastForward(time.Hour)
	_, err := s.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	custom := NewRedisFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}), WithPrefix("test:"))
	defer custom.Close()
	require.NoError(t, custom.Save(ctx, "abc", "blob", 0))
	assert.True(t, mr.Exists("test:abc"))
	assert.Equal(t, time.Duration(0), mr.TTL("test:abc"))
}

func TestFile_Layout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Save(ctx, "abc", "blob", time.Second))
	assert.FileExists(t, filepath.Join(dir, "abc.cow"))

	matches, err := filepath.Glob(filepath.Join(dir, "tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFile_RejectsPathKeys(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.ErrorIs(t, f.Save(ctx, key, "x", 0), ErrInvalidKey, key)
		_, err := f.Load(ctx, key)
		assert.ErrorIs(t, err, ErrNotFound, key)
	}
}
