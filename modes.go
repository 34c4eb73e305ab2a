package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the game modes, including any from COWBULL_MODES",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			recs := make([]any, 0, len(reg.Modes()))
			for _, m := range reg.Modes() {
				recs = append(recs, m.Record())
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MODE\tPRIORITY\tDIGITS\tTYPE\tGUESSES\tDEFAULT")
		for _, m := range reg.Modes() {
			def := ""
			if m.Name() == reg.Default().Name() {
				def = "*"
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\t%s\n",
				m.Name(), m.Priority(), m.Digits(), m.Alphabet(), m.GuessesAllowed(), def)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
	modesCmd.Flags().Bool("json", false, "Print the storage records as JSON")
}
