package game

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/robalobadob/cowbull-server/internal/digits"
)

// DefaultTTL is the advisory storage lifetime of a session, in seconds.
const DefaultTTL = 3600

// Session is one game instance. It is mutated only by Engine.Guess.
type Session struct {
	key         string
	mode        Mode
	answer      digits.Word
	guessesMade int
	status      Status
	ttl         int
}

// NewSession creates a playing session with a random answer shaped by m.
func NewSession(m Mode, src digits.Source, ttl int) (*Session, error) {
	if m.IsZero() {
		return nil, fmt.Errorf("%w: a mode is required to create a session", ErrInvalidMode)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Session{
		key:    uuid.NewString(),
		mode:   m,
		answer: digits.Random(src, m.alphabet, m.digits),
		status: StatusPlaying,
		ttl:    ttl,
	}, nil
}

func (s *Session) Key() string { return s.key }
func (s *Session) Mode() Mode { return s.mode }
func (s *Session) Answer() digits.Word { return s.answer }
func (s *Session) GuessesMade() int { return s.guessesMade }
func (s *Session) Status() Status { return s.status }
func (s *Session) TTL() int { return s.ttl }

// Remaining is the number of guesses left; never negative.
func (s *Session) Remaining() int {
	if r := s.mode.guessesAllowed - s.guessesMade; r > 0 {
		return r
	}
	return 0
}

// Summary returns the answer-free view of the session.
func (s *Session) Summary() Summary {
	return Summary{
		Key:              s.key,
		Mode:             s.mode.name,
		Digits:           s.mode.digits,
		DigitType:        int(s.mode.alphabet),
		GuessesAllowed:   s.mode.guessesAllowed,
		GuessesMade:      s.guessesMade,
		GuessesRemaining: s.Remaining(),
		Status:           s.status,
		TTL:              s.ttl,
	}
}

// Clone returns an independent copy.
func (s *Session) Clone() *Session {
	c := *s
	c.answer, _ = digits.FromInts(s.answer.Alphabet(), s.answer.Ints())
	return &c
}

// record is the storage blob layout.
type record struct {
	Key         string     `json:"key"`
	Status      Status     `json:"status"`
	TTL         int        `json:"ttl"`
	Answer      []int      `json:"answer"`
	GuessesMade int        `json:"guesses_made"`
	Mode        ModeRecord `json:"mode"`
}

// MarshalJSON emits the storage blob.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		Key:         s.key,
		Status:      s.status,
		TTL:         s.ttl,
		Answer:      s.answer.Ints(),
		GuessesMade: s.guessesMade,
		Mode:        s.mode.Record(),
	})
}

var requiredKeys = []string{"key", "status", "ttl", "answer", "mode", "guesses_made"}

// RestoreSession rebuilds a session from the top-level fields of a blob.
// Nothing is re-randomized; the result shares no memory with raw.
func RestoreSession(raw map[string]json.RawMessage) (*Session, error) {
	var missing []string
	for _, k := range requiredKeys {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, missingKeys(missing)
	}

	m, err := decodeMode(raw["mode"])
	if err != nil {
		return nil, err
	}

	s := &Session{mode: m}
	fields := []struct {
		name string
		dst  any
	}{
		{"key", &s.key},
		{"status", &s.status},
		{"ttl", &s.ttl},
		{"guesses_made", &s.guessesMade},
	}
	for _, f := range fields {
		if err := json.Unmarshal(raw[f.name], f.dst); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSession, f.name, err)
		}
	}

	var answer []any
	if err := unmarshalNumbers(raw["answer"], &answer); err != nil {
		return nil, fmt.Errorf("%w: answer: %v", ErrMalformedSession, err)
	}
	if len(answer) != m.digits {
		return nil, fmt.Errorf("%w: answer has %d digits, mode %s requires %d",
			ErrMalformedSession, len(answer), m.name, m.digits)
	}
	if s.answer, err = digits.New(m.alphabet, answer...); err != nil {
		return nil, fmt.Errorf("%w: answer: %w", ErrMalformedSession, err)
	}

	switch {
	case s.key == "":
		return nil, fmt.Errorf("%w: key is empty", ErrMalformedSession)
	case !s.status.valid():
		return nil, fmt.Errorf("%w: unknown status %q", ErrMalformedSession, s.status)
	case s.guessesMade < 0:
		return nil, fmt.Errorf("%w: guesses_made is negative", ErrMalformedSession)
	}
	return s, nil
}

func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
