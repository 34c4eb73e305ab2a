package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robalobadob/cowbull-server/internal/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables cowbull reads",
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := config.Variables()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDEFAULT\tCURRENT\tDESCRIPTION")
		for _, v := range vars {
			cur, set := os.LookupEnv(v.Name)
			switch {
			case !set:
				cur = "-"
			case v.Name == "REDIS_PASSWORD" || v.Name == "POSTGRES_DSN":
				cur = "(set)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Name, v.Default, cur, v.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
