package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cowbull-server/internal/digits"
	"github.com/robalobadob/cowbull-server/internal/game"
	"github.com/robalobadob/cowbull-server/internal/session"
	"github.com/robalobadob/cowbull-server/internal/store"
)

func TestSplitGuess(t *testing.T) {
	assert.Equal(t, []any{"1", "2", "3", "4"}, splitGuess("1234"))
	assert.Equal(t, []any{"1", "2", "3", "4"}, splitGuess("1 2 3 4"))
	assert.Equal(t, []any{"1", "2", "3", "4"}, splitGuess("1, 2,3 ,4"))
	assert.Equal(t, []any{"0xA", "b"}, splitGuess("0xA b"))
	assert.Equal(t, []any{"0xA"}, splitGuess("0xA"))
}

func TestMarks(t *testing.T) {
	o := &game.Outcome{Analysis: []digits.Analysis{
		{Outcome: digits.Bull}, {Outcome: digits.Cow}, {Outcome: digits.Miss},
	}}
	assert.Equal(t, "BC-", marks(o))
}

func newPlayManager() *session.Manager {
	eng := game.NewEngine(nil, game.WithSource(rand.New(rand.NewPCG(1, 1))))
	return session.NewManager(eng, store.NewMemory())
}

func TestPlay_InvalidThenQuit(t *testing.T) {
	var out bytes.Buffer
	err := play(context.Background(), newPlayManager(), "normal", strings.NewReader("12\n\nquit\n"), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Mode normal: guess 4 decimal digits in 10 tries.")
	assert.Contains(t, text, "Invalid guess:")
	assert.Contains(t, text, "[10 left] >")
	assert.Contains(t, text, "Bye.")
}

func TestPlay_RunsOutOfGuesses(t *testing.T) {
	mgr := newPlayManager()
	var out bytes.Buffer
	input := strings.Repeat("1 2 3\n", 6) + "1 2 3\n"
	require.NoError(t, play(context.Background(), mgr, "easy", strings.NewReader(input), &out))

	text := out.String()
	assert.Contains(t, text, "Mode easy: guess 3 decimal digits in 6 tries.")
	assert.Contains(t, text, "bulls")
	assert.Contains(t, text, "Please start a new game.")
	assert.NotContains(t, text, "[0 left]")
}

func TestPlay_UnknownMode(t *testing.T) {
	err := play(context.Background(), newPlayManager(), "nope", strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, game.ErrModeNotFound)
}
