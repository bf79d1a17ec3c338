package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"
	"github.com/doinkythederp/rush/commands"
	"github.com/doinkythederp/rush/core"
	"github.com/doinkythederp/rush/core/config"
	"github.com/doinkythederp/rush/core/environment"
	"github.com/doinkythederp/rush/core/logger"
	"github.com/doinkythederp/rush/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string
)

// configPath returns the --config value or the per-user default.
func configPath() (string, error) {
	if cfgPath != "" {
		return cfgPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return config.DefaultDir(home), nil
}

func loadConfig() (*config.Configuration, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return config.Load(afero.NewOsFs(), path)
}

func newDiagnosticLogger(cmd *cobra.Command) *log.Logger {
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "rush"})
}

// newShell builds a shell over the hosting process and the OS filesystem.
func newShell(diag *log.Logger, configuration *config.Configuration) (*core.Shell, error) {
	fs := vos.NewOsFs()
	env, err := environment.New(vos.NewOSProcessEnv(), fs)
	if err != nil {
		return nil, err
	}

	s := core.NewShell(env, configuration, commands.NewCommandManager(), fs, diag)

	if configuration.EventLogPath() != "" {
		fd, err := configuration.OpenEventLog()
		if err != nil {
			return nil, err
		}
		s.AddCloser(fd)
		s.Events = logger.NewJsonLinesLogRecorder(fd).NewSession()
		diag.Debug("recording events", "path", configuration.EventLogPath(), "session", s.Events.SessionID())
	}

	return s, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rush",
	Short: "A small interactive shell",
	Long: `An interactive shell with named builtins, directory history and a
configurable prompt. Every line is a command name followed by whitespace
separated arguments.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		diag := newDiagnosticLogger(cmd)
		configuration, err := loadConfig()
		if err != nil {
			return err
		}
		diag.SetLevel(configuration.Level())

		s, err := newShell(diag, configuration)
		var missing *environment.MissingVariableError
		switch {
		case errors.As(err, &missing):
			diag.Fatal("can't start without the environment", "err", err)
		case err != nil:
			return err
		}

		code, err := runShell(cmd, s)
		s.Close()
		if err != nil {
			return err
		}
		os.Exit(code)
		return nil
	},
}

// runShell runs the -c line if one was given and the interactive loop
// otherwise. It returns the shell's exit code.
func runShell(cmd *cobra.Command, s *core.Shell) (int, error) {
	if cmd.Flags().Changed("command") {
		console := core.NewStreamConsole(cmd.OutOrStdout(), cmd.ErrOrStderr())
		s.Interpret(context.Background(), console, commandLine)
		if code, exited := s.Exited(); exited {
			return code, nil
		}
		return s.LastStatus(), nil
	}

	isTerminal := readline.IsTerminal(int(os.Stdin.Fd()))
	interpreter, err := core.NewInterpreter(s, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), isTerminal)
	if err != nil {
		return 1, err
	}
	defer interpreter.Close()

	return interpreter.Run(), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config path (default $HOME/.config/rush)")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit with its status")
}
