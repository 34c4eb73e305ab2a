// internal/game/types.go
//
// Core type definitions for the cowbull game engine.
// Defines:
//   - Status: lifecycle state of a session (playing/won/lost).
//   - Outcome: result of a single guess.
//   - Summary: the externally visible view of a session (never the answer).

package game

import "github.com/robalobadob/cowbull-server/internal/digits"

// Status is the lifecycle state of a session.
//   - "playing": guesses are scored.
//   - "won":     terminal; the answer was guessed.
//   - "lost":    terminal; guesses ran out.
//   - "waiting": reserved, never entered.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWaiting Status = "waiting"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

func (s Status) valid() bool {
	switch s {
	case StatusPlaying, StatusWaiting, StatusWon, StatusLost:
		return true
	}
	return false
}

// Decided reports whether s is terminal.
func (s Status) Decided() bool { return s == StatusWon || s == StatusLost }

// Outcome is the result of one guess call. Bulls, Cows and Analysis are nil
// when the guess was not scored (the game was already decided).
type Outcome struct {
	Bulls    *int              `json:"bulls"`
	Cows     *int              `json:"cows"`
	Analysis []digits.Analysis `json:"analysis"`
	Message  string            `json:"status,omitempty"`
}

// Scored reports whether the guess was compared against the answer.
func (o *Outcome) Scored() bool { return o.Bulls != nil }

// Summary describes a session without revealing its answer.
type Summary struct {
	Key              string `json:"key"`
	Mode             string `json:"mode"`
	Digits           int    `json:"digits"`
	DigitType        int    `json:"digit-type"`
	GuessesAllowed   int    `json:"guesses"`
	GuessesMade      int    `json:"guesses_made"`
	GuessesRemaining int    `json:"guesses_remaining"`
	Status           Status `json:"status"`
	TTL              int    `json:"ttl"`
}
