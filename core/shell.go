package core

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/doinkythederp/rush/core/config"
	"github.com/doinkythederp/rush/core/environment"
	"github.com/doinkythederp/rush/core/logger"
	"github.com/doinkythederp/rush/core/vos"
)

// Shell is the state a command line executes against. It's owned by a single
// goroutine, the one running the interpreter loop.
type Shell struct {
	Env      *environment.Environment
	Config   *config.Configuration
	Commands *CommandManager
	FS       vos.VFS
	Log      *log.Logger
	Events   *logger.SessionLogger

	runner *Runner

	status   int
	exited   bool
	exitCode int

	toClose listCloser
}

// NewShell creates a shell that dispatches to commands. The event log is
// disabled until Events is replaced.
func NewShell(env *environment.Environment, cfg *config.Configuration, commands *CommandManager, fs vos.VFS, diag *log.Logger) *Shell {
	if diag == nil {
		diag = log.New(io.Discard)
	}

	env.SetTruncation(cfg.Truncation)

	return &Shell{
		Env:      env,
		Config:   cfg,
		Commands: commands,
		FS:       fs,
		Log:      diag,
		Events:   logger.NewNopLogger().NewSession(),
		runner: &Runner{
			Stdin: os.Stdin,
			Log:   diag,
		},
	}
}

// Runner returns the runner used for external programs.
func (s *Shell) Runner() *Runner {
	return s.runner
}

// SetStdin replaces the input handed to external programs, nil means none.
func (s *Shell) SetStdin(r io.Reader) {
	s.runner.Stdin = r
}

// Success reports whether the last command succeeded.
func (s *Shell) Success() bool {
	return s.status == 0
}

// LastStatus returns the status of the last command.
func (s *Shell) LastStatus() int {
	return s.status
}

// SetStatus records the status of the last command.
func (s *Shell) SetStatus(code int) {
	s.status = code
}

// Exit asks the interpreter to stop after the current command.
func (s *Shell) Exit(code int) {
	s.exited = true
	s.exitCode = code
}

// Exited reports whether Exit was called and with which code.
func (s *Shell) Exited() (code int, exited bool) {
	return s.exitCode, s.exited
}

// SetWorkingDirectory changes directory honoring the configured history
// limit.
func (s *Shell) SetWorkingDirectory(raw string) error {
	return s.Env.SetWorkingDirectory(raw, s.Config.HistoryLimit)
}

// AddCloser registers c to be closed along with the shell.
func (s *Shell) AddCloser(c io.Closer) {
	s.toClose = append(s.toClose, c)
}

// Close releases everything registered with AddCloser.
func (s *Shell) Close() error {
	return s.toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
