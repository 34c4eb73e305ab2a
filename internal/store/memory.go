// internal/store/memory.go
//
// In-memory implementation of Store.
// Used in development, tests, and single-process deployments where
// durability is not required.
//
// Characteristics:
//   - Blobs keyed by session key in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Expired entries are dropped lazily on Load.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	blob    string
	expires time.Time // zero: never
}

// Memory is a map-based Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

// Save adds or replaces the blob for key.
func (m *Memory) Save(_ context.Context, key, blob string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{blob: blob, expires: expiry(m.now(), ttl)}
	return nil
}

// Load returns the blob for key or ErrNotFound if missing or expired.
func (m *Memory) Load(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expires.Equal(e.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return "", ErrNotFound
	}
	return e.blob, nil
}

// Len reports the number of entries held, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Close() error { return nil }
