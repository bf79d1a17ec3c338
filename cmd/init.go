package cmd

import (
	"github.com/doinkythederp/rush/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// initCmd writes the default configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration if there is none.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path, err := configPath()
		if err != nil {
			return err
		}

		return config.Initialize(afero.NewOsFs(), path, newDiagnosticLogger(cmd))
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
