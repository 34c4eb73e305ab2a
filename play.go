package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/robalobadob/cowbull-server/internal/digits"
	"github.com/robalobadob/cowbull-server/internal/game"
	"github.com/robalobadob/cowbull-server/internal/session"
	"github.com/robalobadob/cowbull-server/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	Long: `Starts a game against the configured modes and reads guesses from stdin.
Enter digits separated by spaces or commas ("1 2 3 4"), or run together ("1234").
Type "quit" to give up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		mode, _ := cmd.Flags().GetString("mode")
		mgr := session.NewManager(game.NewEngine(reg), store.NewMemory())
		return play(cmd.Context(), mgr, mode, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("mode", "m", "", "Game mode (default: lowest priority mode)")
}

// play runs one game to completion or until in is exhausted.
func play(ctx context.Context, mgr *session.Manager, mode string, in io.Reader, out io.Writer) error {
	sum, err := mgr.Create(ctx, mode)
	if err != nil {
		return err
	}
	kind := "decimal digits"
	if sum.DigitType == 1 {
		kind = "hex digits (0-f)"
	}
	fmt.Fprintf(out, "Mode %s: guess %d %s in %d tries.\n", sum.Mode, sum.Digits, kind, sum.GuessesAllowed)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "[%d left] > ", sum.GuessesRemaining)
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Bye.")
			return nil
		}

		res, err := mgr.Guess(ctx, sum.Key, splitGuess(line))
		if errors.Is(err, game.ErrValidation) {
			fmt.Fprintf(out, "Invalid guess: %v\n", err)
			continue
		}
		if err != nil {
			return err
		}
		sum = res.Game

		if o := res.Outcome; o.Scored() {
			fmt.Fprintf(out, "%d bulls, %d cows  %s\n", *o.Bulls, *o.Cows, marks(o))
		}
		if res.Outcome.Message != "" {
			fmt.Fprintln(out, res.Outcome.Message)
		}
		if sum.Status.Decided() {
			return nil
		}
	}
}

// splitGuess accepts "1 2 3 4", "1,2,3,4" or "1234".
func splitGuess(line string) []any {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 1 && !strings.HasPrefix(strings.ToLower(fields[0]), "0x") {
		fields = strings.Split(fields[0], "")
	}
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = f
	}
	return out
}

// marks renders one symbol per position: B bull, C cow, - miss.
func marks(o *game.Outcome) string {
	var b strings.Builder
	for _, a := range o.Analysis {
		switch a.Outcome {
		case digits.Bull:
			b.WriteByte('B')
		case digits.Cow:
			b.WriteByte('C')
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
