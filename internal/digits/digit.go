// internal/digits/digit.go
//
// Digit symbols and alphabets.
// A digit is an integer in [0, base) where base is 10 (decimal) or 16 (hex).
// Callers may hand us digits as Go integers, JSON numbers, or strings such as
// "5", "0xA" or "b"; Parse normalizes all of them to the canonical int.

package digits

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Alphabet selects the symbol set shared by every digit of a Word.
// The numeric values are part of the storage format ("digit_type").
type Alphabet int

const (
	Decimal Alphabet = 0
	Hex     Alphabet = 1
)

var (
	// ErrInvalidDigit is returned for symbols that are not a digit of the alphabet.
	ErrInvalidDigit = errors.New("invalid digit")
	// ErrMismatch is returned when two words of different shape are compared.
	ErrMismatch = errors.New("digit word mismatch")
	// ErrUnknownAlphabet is returned for alphabet values other than Decimal or Hex.
	ErrUnknownAlphabet = errors.New("unknown alphabet")
)

// Base returns the number of symbols in the alphabet.
func (a Alphabet) Base() int {
	if a == Hex {
		return 16
	}
	return 10
}

// Valid reports whether a is one of the known alphabets.
func (a Alphabet) Valid() bool { return a == Decimal || a == Hex }

func (a Alphabet) String() string {
	switch a {
	case Decimal:
		return "decimal"
	case Hex:
		return "hex"
	default:
		return "alphabet(" + strconv.Itoa(int(a)) + ")"
	}
}

// Format renders a single digit in the alphabet's base.
func (a Alphabet) Format(d int) string {
	return strconv.FormatInt(int64(d), a.Base())
}

// Parse normalizes one digit symbol for alphabet a.
func Parse(v any, a Alphabet) (int, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownAlphabet, int(a))
	}
	var (
		d   int64
		err error
	)
	switch x := v.(type) {
	case int:
		d = int64(x)
	case int8:
		d = int64(x)
	case int16:
		d = int64(x)
	case int32:
		d = int64(x)
	case int64:
		d = x
	case uint8:
		d = int64(x)
	case uint16:
		d = int64(x)
	case uint32:
		d = int64(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, invalid(v, a)
		}
		d = int64(x)
	case json.Number:
		d, err = x.Int64()
	case string:
		d, err = parseString(x, a)
	default:
		return 0, invalid(v, a)
	}
	if err != nil || d < 0 || d >= int64(a.Base()) {
		return 0, invalid(v, a)
	}
	return int(d), nil
}

func parseString(s string, a Alphabet) (int64, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") {
		return strconv.ParseInt(lower[2:], 16, 64)
	}
	return strconv.ParseInt(lower, a.Base(), 64)
}

func invalid(v any, a Alphabet) error {
	return fmt.Errorf("%w: %v is not a %s digit (expected 0-%s)",
		ErrInvalidDigit, v, a, strings.ToUpper(a.Format(a.Base()-1)))
}
