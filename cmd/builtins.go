package cmd

import (
	"fmt"
	"strings"

	"github.com/doinkythederp/rush/commands"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, b := range commands.ListBuiltins() {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(b.Names(), ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
