package digits

import (
	"fmt"
	"strings"
)

// Word is an ordered, fixed-length tuple of digits sharing one alphabet.
// Words are values; every constructor copies its input.
type Word struct {
	alphabet Alphabet
	digits   []int
}

// New builds a word from zero or more symbols, each normalized with Parse.
// With no symbols the word is empty until Randomize is called.
func New(a Alphabet, symbols ...any) (Word, error) {
	if !a.Valid() {
		return Word{}, fmt.Errorf("%w: %d", ErrUnknownAlphabet, int(a))
	}
	w := Word{alphabet: a, digits: make([]int, 0, len(symbols))}
	for i, s := range symbols {
		d, err := Parse(s, a)
		if err != nil {
			return Word{}, fmt.Errorf("position %d: %w", i, err)
		}
		w.digits = append(w.digits, d)
	}
	return w, nil
}

// FromInts restores a word from its storage form.
func FromInts(a Alphabet, vals []int) (Word, error) {
	syms := make([]any, len(vals))
	for i, v := range vals {
		syms[i] = v
	}
	return New(a, syms...)
}

// Randomize returns a word of n digits drawn independently and uniformly
// from the alphabet. Repeated digits are allowed.
func (w Word) Randomize(src Source, n int) Word {
	out := Word{alphabet: w.alphabet, digits: make([]int, n)}
	base := w.alphabet.Base()
	for i := range out.digits {
		out.digits[i] = src.IntN(base)
	}
	return out
}

// Random is shorthand for an empty word of alphabet a randomized to n digits.
func Random(src Source, a Alphabet, n int) Word {
	return Word{alphabet: a}.Randomize(src, n)
}

func (w Word) Len() int { return len(w.digits) }
func (w Word) Alphabet() Alphabet { return w.alphabet }

// At returns the digit at position i.
func (w Word) At(i int) int { return w.digits[i] }

// Ints returns a copy of the digits, the storage form of the word.
func (w Word) Ints() []int {
	out := make([]int, len(w.digits))
	copy(out, w.digits)
	return out
}

// Equal reports whether both words have the same alphabet and digits.
func (w Word) Equal(o Word) bool {
	if w.alphabet != o.alphabet || len(w.digits) != len(o.digits) {
		return false
	}
	for i := range w.digits {
		if w.digits[i] != o.digits[i] {
			return false
		}
	}
	return true
}

// String renders the word as a readable list, e.g. "9, 6, 9, and 4".
func (w Word) String() string {
	parts := make([]string, len(w.digits))
	for i, d := range w.digits {
		parts[i] = w.alphabet.Format(d)
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}
