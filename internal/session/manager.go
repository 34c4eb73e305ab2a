// Package session runs game operations against a store: every guess is a
// load, score, save cycle under a per-key lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cowbull-server/internal/game"
	"github.com/robalobadob/cowbull-server/internal/metrics"
	"github.com/robalobadob/cowbull-server/internal/store"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Manager orchestrates sessions between the engine and a store.
type Manager struct {
	engine *game.Engine
	store  store.Store

	locks   *store.KeyedMutex
	locker  store.Locker // optional, cross-process
	lockTTL time.Duration

	metrics *metrics.Collector
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(l store.Locker) Option {
	return func(m *Manager) { m.locker = l }
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(d time.Duration) Option {
	return func(m *Manager) { m.lockTTL = d }
}

// WithMetrics records activity on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Manager) { m.metrics = c }
}

// NewManager creates a Manager.
func NewManager(engine *game.Engine, st store.Store, opts ...Option) *Manager {
	m := &Manager{
		engine:  engine,
		store:   st,
		locks:   store.NewKeyedMutex(),
		lockTTL: DefaultLockTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GuessResult is the reply to one guess.
type GuessResult struct {
	Game    game.Summary  `json:"game"`
	Outcome *game.Outcome `json:"outcome"`
}

// Modes lists the registered modes by ascending priority.
func (m *Manager) Modes() []game.Mode {
	return m.engine.Registry().Modes()
}

// Create starts a game in the named mode ("" for the default) and persists it.
func (m *Manager) Create(ctx context.Context, mode string) (game.Summary, error) {
	s, err := m.engine.NewSession(mode)
	if err != nil {
		return game.Summary{}, err
	}
	if err := m.save(ctx, s); err != nil {
		return game.Summary{}, err
	}
	m.metrics.GameCreated(s.Mode().Name())
	log.Info().Str("key", s.Key()).Str("mode", s.Mode().Name()).Msg("game created")
	return s.Summary(), nil
}

// Get returns the current summary of a stored game.
func (m *Manager) Get(ctx context.Context, key string) (game.Summary, error) {
	s, err := m.load(ctx, key)
	if err != nil {
		return game.Summary{}, err
	}
	return s.Summary(), nil
}

// Guess scores symbols against the stored game and persists the new state.
// Guesses on one key never interleave.
func (m *Manager) Guess(ctx context.Context, key string, symbols []any) (*GuessResult, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", game.ErrValidation)
	}

	var res *GuessResult
	err := m.WithLock(ctx, key, func(ctx context.Context) error {
		s, err := m.load(ctx, key)
		if err != nil {
			return err
		}
		out, err := m.engine.Guess(s, symbols)
		if err != nil {
			return err
		}
		if out.Scored() {
			if err := m.save(ctx, s); err != nil {
				return err
			}
			m.record(s)
		}
		res = &GuessResult{Game: s.Summary(), Outcome: out}
		return nil
	})
	return res, err
}

// Ready pings the store.
func (m *Manager) Ready(ctx context.Context) error {
	if err := m.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: store: %w", game.ErrDependency, err)
	}
	return nil
}

// WithLock executes fn while holding the in-process lock for key and, when
// configured, the distributed one.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	unlock := m.locks.Lock(key)
	defer unlock()

	if m.locker != nil {
		release, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("%w: lock %s: %w", game.ErrDependency, key, err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to release distributed lock (will expire via TTL)")
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) load(ctx context.Context, key string) (*game.Session, error) {
	start := time.Now()
	blob, err := m.store.Load(ctx, key)
	m.metrics.ObserveStore("load", start, ignoreNotFound(err))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", game.ErrSessionNotFound, key)
	case err != nil:
		return nil, fmt.Errorf("%w: load %s: %w", game.ErrDependency, key, err)
	}
	return m.engine.LoadSession([]byte(blob))
}

func (m *Manager) save(ctx context.Context, s *game.Session) error {
	blob, err := m.engine.Serialize(s)
	if err != nil {
		return fmt.Errorf("serialize %s: %w", s.Key(), err)
	}
	start := time.Now()
	err = m.store.Save(ctx, s.Key(), string(blob), time.Duration(s.TTL())*time.Second)
	m.metrics.ObserveStore("save", start, err)
	if err != nil {
		return fmt.Errorf("%w: save %s: %w", game.ErrDependency, s.Key(), err)
	}
	return nil
}

func (m *Manager) record(s *game.Session) {
	mode := s.Mode().Name()
	m.metrics.GuessScored(mode)
	if st := s.Status(); st.Decided() {
		m.metrics.GameFinished(mode, string(st))
		log.Info().Str("key", s.Key()).Str("mode", mode).Str("result", string(st)).Msg("game finished")
	}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}
