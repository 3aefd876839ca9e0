package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitalvas/jsrewrite/rewrite"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rules in the order they are tried",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range rewrite.DefaultRuleNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
