package game

import (
	"fmt"
	"sort"

	"github.com/robalobadob/cowbull-server/internal/digits"
)

// Registry is the set of modes an Engine can create sessions in.
// It is immutable once built and safe to share between goroutines.
type Registry struct {
	modes  []Mode // sorted by priority, registration order breaks ties
	byName map[string]Mode
}

// BuiltinModes returns the four default modes, ordered by priority.
func BuiltinModes() []Mode {
	return []Mode{
		mustMode("easy", 1,
			WithDigits(3), WithGuesses(6),
			WithInstructionText("Enter 3 digits, each digit between 0 and 9."),
			WithHelpText("The easy game. Guess 3 digits, each a whole number between 0 and 9, in the right place. You have 6 tries."),
		),
		mustMode("normal", 2,
			WithDigits(4), WithGuesses(10),
			WithInstructionText("Enter 4 digits, each digit between 0 and 9 (0, 1, 2, 3, 4, 5, 6, 7, 8, and 9)."),
			WithHelpText("This is the normal (default) game. You need to guess 4 digits in the right place and each digit must be a whole number between 0 and 9. There are 10 tries to guess the correct answer."),
		),
		mustMode("hard", 3,
			WithDigits(6), WithGuesses(6),
			WithInstructionText("Enter 6 digits, each digit between 0 and 9."),
			WithHelpText("The hard game. Guess 6 digits, each a whole number between 0 and 9, in only 6 tries."),
		),
		mustMode("hex", 4,
			WithDigits(4), WithGuesses(10), WithAlphabet(digits.Hex),
			WithInstructionText("Enter 4 hex digits, each between 0 and F (e.g. 0xA, b, 5)."),
			WithHelpText("The hex game. Guess 4 hexadecimal digits (0 to F) in the right place. There are 10 tries."),
		),
	}
}

func mustMode(name string, priority int, opts ...ModeOption) Mode {
	m, err := NewMode(name, priority, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// NewRegistry returns the built-in modes plus any custom modes appended.
// Mode names must be unique across the whole registry.
func NewRegistry(custom ...Mode) (*Registry, error) {
	all := append(BuiltinModes(), custom...)
	r := &Registry{byName: make(map[string]Mode, len(all))}
	for _, m := range all {
		if m.IsZero() {
			return nil, fmt.Errorf("%w: registry contains an unconstructed mode", ErrInvalidMode)
		}
		if _, dup := r.byName[m.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMode, m.name)
		}
		r.byName[m.name] = m
		r.modes = append(r.modes, m)
	}
	sort.SliceStable(r.modes, func(i, j int) bool { return r.modes[i].priority < r.modes[j].priority })
	return r, nil
}

// Modes returns the modes sorted by ascending priority.
func (r *Registry) Modes() []Mode {
	out := make([]Mode, len(r.modes))
	copy(out, r.modes)
	return out
}

// Names returns mode names in listing order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.modes))
	for i, m := range r.modes {
		out[i] = m.name
	}
	return out
}

// Lookup finds a mode by exact, case-sensitive name.
func (r *Registry) Lookup(name string) (Mode, error) {
	m, ok := r.byName[name]
	if !ok {
		return Mode{}, fmt.Errorf("%w: %q", ErrModeNotFound, name)
	}
	return m, nil
}

// Default is the mode with the lowest priority.
func (r *Registry) Default() Mode { return r.modes[0] }
