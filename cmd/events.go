package cmd

import (
	"errors"
	"fmt"

	"github.com/doinkythederp/rush/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var showSessions bool

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the command event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Show a report of events.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config, err := loadConfig()
		if err != nil {
			return err
		}
		if config.EventLogPath() == "" {
			return errors.New("event_log isn't set in the configuration")
		}

		fd, err := config.ReadEventLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		report := logger.NewReport()
		var sessions logger.SessionReport
		err = logger.ReadJSONLinesLog(fd, func(le *logger.LogEntry) {
			report.Update(le)
			sessions.Update(le)
		})
		if err != nil {
			return err
		}

		var out interface{} = report
		if showSessions {
			out = &sessions
		}
		yamlOut, err := yaml.Marshal(out)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(yamlOut))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	reportCommand.Flags().BoolVar(&showSessions, "sessions", false, "group the commands by session instead")
}
