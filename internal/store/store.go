// internal/store/store.go
//
// Persistence for cowbull session blobs.
// The game engine produces and consumes opaque JSON strings; a Store only
// keeps them by key with an optional expiry.
//
// Backends (selected by name at startup):
//   - memory:   process-local map, lost on restart.
//   - redis:    SET with TTL, shared across instances.
//   - sqlite:   single file, migrations embedded in the binary.
//   - postgres: gorm-managed table.
//   - file:     one <key>.cow file per session in a directory.

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned by Load when no live blob exists for a key.
var ErrNotFound = errors.New("store: key not found")

// ErrUnknownBackend is returned by Open for a backend name outside Backends.
var ErrUnknownBackend = errors.New("store: unknown backend")

// Store defines the persistence interface for session blobs.
type Store interface {
	// Save creates or replaces the blob for key. A ttl <= 0 means no expiry.
	Save(ctx context.Context, key, blob string, ttl time.Duration) error

	// Load returns the blob for key, or ErrNotFound.
	Load(ctx context.Context, key string) (string, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

// Backends lists every backend name, in documentation order.
var Backends = []string{BackendMemory, BackendRedis, BackendSQLite, BackendPostgres, BackendFile}

// Options carries the settings for every backend; Open reads only the ones
// relevant to Backend.
type Options struct {
	Backend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	SQLitePath  string
	PostgresDSN string
	FileDir     string
}

// Open constructs the backend named by o.Backend.
func Open(ctx context.Context, o Options) (Store, error) {
	switch strings.ToLower(o.Backend) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		s := NewRedis(o.RedisAddr, o.RedisPassword, o.RedisDB, WithPrefix(o.RedisPrefix))
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("connect redis %s: %w", o.RedisAddr, err)
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(ctx, o.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendPostgres:
		s, err := OpenPostgres(ctx, o.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		s, err := NewFile(o.FileDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownBackend, o.Backend, strings.Join(Backends, ", "))
}

// expiry converts a ttl into an absolute deadline; the zero time means none.
func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
