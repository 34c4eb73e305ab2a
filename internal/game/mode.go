// internal/game/mode.go
//
// Game modes (difficulty tiers).
// A Mode is an immutable value validated once at construction:
//   - name:            required, non-empty.
//   - priority:        required; orders mode listings ascending.
//   - digits:          default 4, must be positive.
//   - alphabet:        default decimal.
//   - guesses allowed: default 10, must be positive.
//   - help/instruction text: optional.
//
// ModeFromMap decodes the flat storage/config record and rejects unknown
// fields so typos in custom mode files fail loudly.

package game

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/robalobadob/cowbull-server/internal/digits"
)

const (
	defaultDigits  = 4
	defaultGuesses = 10
)

// Mode describes one difficulty tier. The zero value is not a valid mode.
type Mode struct {
	name            string
	priority        int
	digits          int
	alphabet        digits.Alphabet
	guessesAllowed  int
	helpText        string
	instructionText string
}

// ModeOption customizes NewMode.
type ModeOption func(*Mode)

func WithDigits(n int) ModeOption { return func(m *Mode) { m.digits = n } }
func WithGuesses(n int) ModeOption { return func(m *Mode) { m.guessesAllowed = n } }
func WithAlphabet(a digits.Alphabet) ModeOption { return func(m *Mode) { m.alphabet = a } }
func WithHelpText(s string) ModeOption { return func(m *Mode) { m.helpText = s } }
func WithInstructionText(s string) ModeOption { return func(m *Mode) { m.instructionText = s } }

// NewMode validates and returns a mode.
func NewMode(name string, priority int, opts ...ModeOption) (Mode, error) {
	m := Mode{
		name:           name,
		priority:       priority,
		digits:         defaultDigits,
		alphabet:       digits.Decimal,
		guessesAllowed: defaultGuesses,
	}
	for _, o := range opts {
		o(&m)
	}
	if err := m.validate(); err != nil {
		return Mode{}, err
	}
	return m, nil
}

func (m Mode) validate() error {
	switch {
	case m.name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidMode)
	case m.digits < 1:
		return fmt.Errorf("%w: %s: digits must be a positive integer, got %d", ErrInvalidMode, m.name, m.digits)
	case m.guessesAllowed < 1:
		return fmt.Errorf("%w: %s: guesses_allowed must be a positive integer, got %d", ErrInvalidMode, m.name, m.guessesAllowed)
	case !m.alphabet.Valid():
		return fmt.Errorf("%w: %s: digit_type must be 0 (decimal) or 1 (hex), got %d", ErrInvalidMode, m.name, int(m.alphabet))
	}
	return nil
}

func (m Mode) Name() string { return m.name }
func (m Mode) Priority() int { return m.priority }
func (m Mode) Digits() int { return m.digits }
func (m Mode) Alphabet() digits.Alphabet { return m.alphabet }
func (m Mode) GuessesAllowed() int { return m.guessesAllowed }
func (m Mode) HelpText() string { return m.helpText }
func (m Mode) InstructionText() string { return m.instructionText }

// IsZero reports whether m was never constructed.
func (m Mode) IsZero() bool { return m.name == "" }

// ModeRecord is the flat wire form of a mode inside a session blob.
type ModeRecord struct {
	Mode            string  `json:"mode"`
	Priority        int     `json:"priority"`
	Digits          int     `json:"digits"`
	DigitType       int     `json:"digit_type"`
	GuessesAllowed  int     `json:"guesses_allowed"`
	InstructionText *string `json:"instruction_text"`
	HelpText        *string `json:"help_text"`
}

// Record returns the wire form of m. Empty texts encode as null.
func (m Mode) Record() ModeRecord {
	return ModeRecord{
		Mode:            m.name,
		Priority:        m.priority,
		Digits:          m.digits,
		DigitType:       int(m.alphabet),
		GuessesAllowed:  m.guessesAllowed,
		InstructionText: optional(m.instructionText),
		HelpText:        optional(m.helpText),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// modeInput mirrors ModeRecord with every field optional so that absence
// can be told apart from zero.
type modeInput struct {
	Mode            *string `mapstructure:"mode"`
	Priority        *int    `mapstructure:"priority"`
	Digits          *int    `mapstructure:"digits"`
	DigitType       *int    `mapstructure:"digit_type"`
	GuessesAllowed  *int    `mapstructure:"guesses_allowed"`
	InstructionText *string `mapstructure:"instruction_text"`
	HelpText        *string `mapstructure:"help_text"`
}

// ModeFromMap builds a mode from its flat record. "mode" and "priority" are
// required; unknown keys are an error.
func ModeFromMap(raw map[string]any) (Mode, error) {
	var in modeInput
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &in,
	})
	if err != nil {
		return Mode{}, fmt.Errorf("%w: %v", ErrInvalidMode, err)
	}
	if err := dec.Decode(raw); err != nil {
		return Mode{}, fmt.Errorf("%w: %v", ErrInvalidMode, err)
	}
	if in.Mode == nil || *in.Mode == "" {
		return Mode{}, fmt.Errorf("%w: 'mode' not provided and no default allowed", ErrInvalidMode)
	}
	if in.Priority == nil {
		return Mode{}, fmt.Errorf("%w: %s: 'priority' not provided and no default allowed", ErrInvalidMode, *in.Mode)
	}

	var opts []ModeOption
	if in.Digits != nil {
		opts = append(opts, WithDigits(*in.Digits))
	}
	if in.GuessesAllowed != nil {
		opts = append(opts, WithGuesses(*in.GuessesAllowed))
	}
	if in.DigitType != nil {
		opts = append(opts, WithAlphabet(digits.Alphabet(*in.DigitType)))
	}
	if in.HelpText != nil {
		opts = append(opts, WithHelpText(*in.HelpText))
	}
	if in.InstructionText != nil {
		opts = append(opts, WithInstructionText(*in.InstructionText))
	}
	return NewMode(*in.Mode, *in.Priority, opts...)
}

// decodeMode decodes a mode record from raw JSON, keeping integers exact.
func decodeMode(data json.RawMessage) (Mode, error) {
	var raw map[string]any
	if err := unmarshalNumbers(data, &raw); err != nil {
		return Mode{}, fmt.Errorf("%w: mode: %v", ErrMalformedSession, err)
	}
	if raw == nil {
		return Mode{}, fmt.Errorf("%w: mode must be an object", ErrMalformedSession)
	}
	m, err := ModeFromMap(raw)
	if err != nil {
		return Mode{}, fmt.Errorf("%w: %w", ErrMalformedSession, err)
	}
	return m, nil
}
