// internal/game/engine.go
//
// Core game engine for cowbull sessions.
// Responsibilities:
//   - Resolve modes against the registry and create sessions.
//   - Load sessions from, and serialize them to, the storage blob.
//   - Validate and score guesses (bulls and cows).
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - The engine keeps no session between calls; callers own persistence.
//   - A guess either applies fully or not at all.
package game

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cowbull-server/internal/digits"
)

// Engine orchestrates sessions for one registry.
type Engine struct {
	registry *Registry
	src      digits.Source
	ttl      int
}

// EngineOption customizes NewEngine.
type EngineOption func(*Engine)

// WithSource sets the random source used for answers.
func WithSource(src digits.Source) EngineOption {
	return func(e *Engine) { e.src = src }
}

// WithTTL sets the advisory ttl (seconds) stamped on new sessions.
func WithTTL(seconds int) EngineOption {
	return func(e *Engine) { e.ttl = seconds }
}

// NewEngine constructs an engine. A nil registry means built-ins only.
func NewEngine(reg *Registry, opts ...EngineOption) *Engine {
	if reg == nil {
		reg, _ = NewRegistry()
	}
	e := &Engine{registry: reg, ttl: DefaultTTL}
	for _, o := range opts {
		o(e)
	}
	if e.src == nil {
		e.src = digits.NewSource()
	}
	return e
}

// Registry exposes the engine's modes.
func (e *Engine) Registry() *Registry { return e.registry }

// NewSession creates a session in the named mode. An empty name selects
// the registry default (lowest priority).
func (e *Engine) NewSession(mode string) (*Session, error) {
	m := e.registry.Default()
	if mode != "" {
		var err error
		if m, err = e.registry.Lookup(mode); err != nil {
			return nil, err
		}
	}
	return e.NewSessionWithMode(m)
}

// NewSessionWithMode creates a session in an explicit mode, which need not
// be registered.
func (e *Engine) NewSessionWithMode(m Mode) (*Session, error) {
	s, err := NewSession(m, e.src, e.ttl)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("key", s.key).Str("mode", m.name).Msg("session created")
	return s, nil
}

// LoadSession parses a storage blob.
func (e *Engine) LoadSession(blob []byte) (*Session, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(blob), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if raw == nil {
		return nil, ErrBadFormat
	}
	if _, ok := raw["mode"]; !ok {
		return nil, missingKeys([]string{"mode"})
	}
	s, err := RestoreSession(raw)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("key", s.key).Str("status", string(s.status)).Msg("session loaded")
	return s, nil
}

// Serialize returns the storage blob for s.
func (e *Engine) Serialize(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

// Guess scores symbols against the session answer and advances its state.
//
// Decided sessions are never mutated; their outcome carries only a message.
// Invalid symbols or a wrong digit count return an ErrValidation error and
// leave the session untouched.
func (e *Engine) Guess(s *Session, symbols []any) (*Outcome, error) {
	switch {
	case s.status == StatusWon:
		return &Outcome{Message: s.revealMessage("You already won!")}, nil
	case s.status == StatusLost:
		return &Outcome{Message: s.revealMessage("You already lost!")}, nil
	case s.Remaining() < 1:
		return &Outcome{Message: s.revealMessage("You've made too many guesses")}, nil
	}

	m := s.mode
	if len(symbols) != m.digits {
		return nil, fmt.Errorf("%w: expected %d digits, got %d", ErrValidation, m.digits, len(symbols))
	}
	guess, err := digits.New(m.alphabet, symbols...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	analysis, err := s.answer.Compare(guess)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	bulls, cows := digits.Tally(analysis)
	out := &Outcome{Bulls: &bulls, Cows: &cows, Analysis: analysis}

	s.guessesMade++
	switch {
	case bulls == m.digits:
		s.status = StatusWon
		s.guessesMade = m.guessesAllowed
		out.Message = s.revealMessage("Congratulations, you win!")
	case s.Remaining() < 1:
		s.status = StatusLost
		out.Message = s.revealMessage("Sorry, you lost!")
	}

	log.Debug().
		Str("key", s.key).
		Int("bulls", bulls).
		Int("cows", cows).
		Int("remaining", s.Remaining()).
		Str("status", string(s.status)).
		Msg("guess scored")
	return out, nil
}

// revealMessage appends the answer to a terminal message.
func (s *Session) revealMessage(msg string) string {
	sep := "."
	switch msg[len(msg)-1] {
	case '.', ',', ';', ':', '!':
		sep = ""
	}
	return fmt.Sprintf("%s%s The correct answer was %s. Please start a new game.", msg, sep, s.answer)
}
