package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cowbull-server/internal/digits"
)

// restore builds a playing session in a decimal "test1" mode with a fixed answer.
func restore(t *testing.T, answer []int, guesses int) *Session {
	t.Helper()
	m, err := NewMode("test1", 5, WithDigits(len(answer)), WithGuesses(guesses))
	require.NoError(t, err)
	w, err := digits.FromInts(digits.Decimal, answer)
	require.NoError(t, err)
	return &Session{key: "k-1", mode: m, answer: w, status: StatusPlaying, ttl: DefaultTTL}
}

func anys(vals ...int) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func TestEngine_NewSessionDefaultsToLowestPriority(t *testing.T) {
	e := NewEngine(nil)
	s, err := e.NewSession("")
	require.NoError(t, err)
	assert.Equal(t, "easy", s.Mode().Name())
	assert.Equal(t, 3, s.Answer().Len())

	_, err = e.NewSession("impossible")
	assert.ErrorIs(t, err, ErrModeNotFound)
}

func TestEngine_NewSessionDeterministicWithSource(t *testing.T) {
	a := NewEngine(nil, WithSource(rand.New(rand.NewPCG(1, 2))), WithTTL(60))
	b := NewEngine(nil, WithSource(rand.New(rand.NewPCG(1, 2))))
	sa, err := a.NewSession("hex")
	require.NoError(t, err)
	sb, err := b.NewSession("hex")
	require.NoError(t, err)
	assert.True(t, sa.Answer().Equal(sb.Answer()))
	assert.NotEqual(t, sa.Key(), sb.Key())
	assert.Equal(t, 60, sa.TTL())
	assert.Equal(t, DefaultTTL, sb.TTL())
}

func TestEngine_GuessWin(t *testing.T) {
	e := NewEngine(nil)
	s, err := e.LoadSession([]byte(normalBlob))
	require.NoError(t, err)

	out, err := e.Guess(s, anys(9, 6, 9, 4))
	require.NoError(t, err)
	require.True(t, out.Scored())
	assert.Equal(t, 4, *out.Bulls)
	assert.Equal(t, 0, *out.Cows)
	assert.Len(t, out.Analysis, 4)
	for _, a := range out.Analysis {
		assert.Equal(t, digits.Bull, a.Outcome)
	}
	assert.Equal(t, StatusWon, s.Status())
	assert.Equal(t, 0, s.Remaining())
	assert.Equal(t, "Congratulations, you win! The correct answer was 9, 6, 9, and 4. Please start a new game.", out.Message)

	again, err := e.Guess(s, anys(1, 2, 3, 4))
	require.NoError(t, err)
	assert.False(t, again.Scored())
	assert.Equal(t, "You already won! The correct answer was 9, 6, 9, and 4. Please start a new game.", again.Message)
	assert.Equal(t, 10, s.GuessesMade())
}

func TestEngine_GuessPartial(t *testing.T) {
	e := NewEngine(nil)
	s := restore(t, []int{1, 2, 3, 4}, 10)

	out, err := e.Guess(s, anys(4, 2, 1, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, *out.Bulls)
	assert.Equal(t, 2, *out.Cows)
	assert.Empty(t, out.Message)
	assert.Equal(t, StatusPlaying, s.Status())
	assert.Equal(t, 1, s.GuessesMade())
	assert.Equal(t, 9, s.Remaining())
}

func TestEngine_GuessLoss(t *testing.T) {
	e := NewEngine(nil)
	s := restore(t, []int{4, 2, 0, 0}, 2)

	out, err := e.Guess(s, anys(1, 1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, *out.Bulls)
	assert.Equal(t, StatusPlaying, s.Status())

	out, err = e.Guess(s, anys(0, 0, 4, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, *out.Bulls)
	assert.Equal(t, 4, *out.Cows)
	assert.Equal(t, StatusLost, s.Status())
	assert.Equal(t, 0, s.Remaining())
	assert.Equal(t, "Sorry, you lost! The correct answer was 4, 2, 0, and 0. Please start a new game.", out.Message)

	out, err = e.Guess(s, anys(4, 2, 0, 0))
	require.NoError(t, err)
	assert.False(t, out.Scored())
	assert.Contains(t, out.Message, "You already lost!")
	assert.Equal(t, 2, s.GuessesMade())
	assert.Equal(t, StatusLost, s.Status())
}

func TestEngine_GuessOutOfGuessesWhilePlaying(t *testing.T) {
	e := NewEngine(nil)
	s := restore(t, []int{1, 2, 3, 4}, 3)
	s.guessesMade = 3

	out, err := e.Guess(s, anys(1, 2, 3, 4))
	require.NoError(t, err)
	assert.False(t, out.Scored())
	assert.Contains(t, out.Message, "You've made too many guesses.")
	assert.Equal(t, 3, s.GuessesMade())
	assert.Equal(t, StatusPlaying, s.Status())
}

func TestEngine_GuessValidationLeavesSessionUntouched(t *testing.T) {
	e := NewEngine(nil)
	s := restore(t, []int{1, 2, 3, 4}, 10)
	before := s.Clone()

	cases := map[string][]any{
		"too few":    anys(1, 2, 3),
		"too many":   anys(1, 2, 3, 4, 5),
		"non digit":  {1, 2, 3, "x"},
		"hex letter": {1, 2, 3, "a"},
		"range":      anys(1, 2, 3, 10),
		"negative":   anys(1, 2, 3, -1),
		"fraction":   {1, 2, 3, 1.5},
		"empty":      {},
	}
	for name, guess := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := e.Guess(s, guess)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, before.Summary(), s.Summary())
		})
	}
}

func TestEngine_GuessHexNormalizesSymbols(t *testing.T) {
	e := NewEngine(nil)
	m, err := e.Registry().Lookup("hex")
	require.NoError(t, err)
	w, err := digits.FromInts(digits.Hex, []int{10, 11, 0, 15})
	require.NoError(t, err)
	s := &Session{key: "hex-1", mode: m, answer: w, status: StatusPlaying, ttl: DefaultTTL}

	out, err := e.Guess(s, []any{"0xA", "b", 0, "F"})
	require.NoError(t, err)
	assert.Equal(t, 4, *out.Bulls)
	assert.Equal(t, 10, out.Analysis[0].Digit)
	assert.Equal(t, 11, out.Analysis[1].Digit)
	assert.Equal(t, StatusWon, s.Status())
	assert.Contains(t, out.Message, "a, b, 0, and f")
}

func TestEngine_GuessCountsMonotonic(t *testing.T) {
	src := rand.New(rand.NewPCG(5, 6))
	e := NewEngine(nil, WithSource(src))
	s, err := e.NewSession("normal")
	require.NoError(t, err)

	prev := s.GuessesMade()
	for i := 0; i < 15 && !s.Status().Decided(); i++ {
		guess := digits.Random(src, digits.Decimal, 4)
		_, err := e.Guess(s, anys(guess.Ints()...))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.GuessesMade(), prev)
		assert.LessOrEqual(t, s.GuessesMade(), s.Mode().GuessesAllowed())
		prev = s.GuessesMade()
	}
	assert.True(t, s.Status().Decided())
	assert.Equal(t, 0, s.Remaining())
}
