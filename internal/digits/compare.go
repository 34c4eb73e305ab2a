package digits

import "fmt"

// Outcome classifies one guessed digit against the secret.
//   - "bull": same digit in the same position.
//   - "cow":  digit present elsewhere in the secret (unclaimed occurrence).
//   - "miss": neither.
type Outcome string

const (
	Bull Outcome = "bull"
	Cow  Outcome = "cow"
	Miss Outcome = "miss"
)

// Analysis is the per-position result of a comparison, in guess order.
type Analysis struct {
	Index    int     `json:"index"`
	Digit    int     `json:"digit"`
	Outcome  Outcome `json:"outcome"`
	Match    bool    `json:"match"`
	InWord   bool    `json:"in_word"`
	Multiple bool    `json:"multiple"`
}

// Compare scores guess against w (the secret).
//
// Pass 1 marks bulls and counts the secret digits left unmatched.
// Pass 2 marks a cow only while an unmatched occurrence of that digit
// remains, so repeated digits are never double counted.
func (w Word) Compare(guess Word) ([]Analysis, error) {
	if w.alphabet != guess.alphabet || len(w.digits) != len(guess.digits) {
		return nil, fmt.Errorf("%w: secret is %d %s digits, guess is %d %s digits",
			ErrMismatch, len(w.digits), w.alphabet, len(guess.digits), guess.alphabet)
	}
	n := len(guess.digits)
	out := make([]Analysis, n)
	var (
		unmatched [16]int
		total     [16]int
	)
	for i := 0; i < n; i++ {
		total[w.digits[i]]++
		if guess.digits[i] == w.digits[i] {
			out[i].Outcome = Bull
		} else {
			unmatched[w.digits[i]]++
		}
	}
	for i := 0; i < n; i++ {
		d := guess.digits[i]
		a := &out[i]
		a.Index, a.Digit, a.Multiple = i, d, total[d] > 1
		if a.Outcome == Bull {
			a.Match, a.InWord = true, true
			continue
		}
		if unmatched[d] > 0 {
			unmatched[d]--
			a.Outcome, a.InWord = Cow, true
		} else {
			a.Outcome = Miss
		}
	}
	return out, nil
}

// Tally counts bulls and cows in an analysis.
func Tally(as []Analysis) (bulls, cows int) {
	for _, a := range as {
		switch a.Outcome {
		case Bull:
			bulls++
		case Cow:
			cows++
		}
	}
	return bulls, cows
}
