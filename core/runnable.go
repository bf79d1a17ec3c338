package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/doinkythederp/rush/core/fspath"
)

// ExitNotExecutable is reported when a resolved command couldn't run to
// completion and the OS supplied no exit code.
const ExitNotExecutable = 126

// ExitNotFound is the conventional status for an unknown command.
const ExitNotFound = 127

// ExecutionFailedError is returned when a command ran and reported a
// non-zero status.
type ExecutionFailedError struct {
	Code int
}

func (e *ExecutionFailedError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// SpawnError is returned when a resolved executable can't be started, for
// example because it was removed after it was looked up.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("couldn't start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitCode maps the result of a Runnable to a shell status.
func ExitCode(err error) int {
	var failed *ExecutionFailedError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &failed):
		return failed.Code
	case errors.As(err, new(*SpawnError)):
		return ExitNotExecutable
	default:
		return 1
	}
}

// Runnable is anything the shell can dispatch a command line to.
type Runnable interface {
	Run(ctx context.Context, s *Shell, console Console, args []string) error
}

// BuiltinFunc is the body of a builtin. It returns the command's status.
type BuiltinFunc func(ctx context.Context, s *Shell, console Console, args []string) int

// Builtin is a command implemented inside the shell.
type Builtin struct {
	// Name is the canonical name of the builtin.
	Name string
	// Aliases are alternative names the builtin answers to.
	Aliases []string
	// Short is a one line description shown by help.
	Short string

	fn BuiltinFunc
}

// NewBuiltin creates a builtin.
func NewBuiltin(name string, aliases []string, short string, fn BuiltinFunc) *Builtin {
	return &Builtin{
		Name:    name,
		Aliases: aliases,
		Short:   short,
		fn:      fn,
	}
}

// Names returns the canonical name followed by the sorted aliases.
func (b *Builtin) Names() []string {
	aliases := append([]string(nil), b.Aliases...)
	sort.Strings(aliases)
	return append([]string{b.Name}, aliases...)
}

// Matches reports whether name is the canonical name or an alias.
func (b *Builtin) Matches(name string) bool {
	for _, n := range b.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Run implements Runnable.
func (b *Builtin) Run(ctx context.Context, s *Shell, console Console, args []string) error {
	if code := b.fn(ctx, s, console, args); code != 0 {
		return &ExecutionFailedError{Code: code}
	}
	return nil
}

var _ Runnable = (*Builtin)(nil)

// Executable is an external program at a validated location.
type Executable struct {
	// Name is passed to the program as argv[0].
	Name string
	// Path is the canonical location of the program.
	Path fspath.Path
}

// NewExecutable creates an executable invoked as name.
func NewExecutable(name string, path fspath.Path) *Executable {
	return &Executable{Name: name, Path: path}
}

// Run implements Runnable by running the program with the shell's runner.
func (e *Executable) Run(ctx context.Context, s *Shell, console Console, args []string) error {
	return s.Runner().Run(ctx, Command{
		Executable: e,
		Args:       args,
		Dir:        s.Env.WorkingDirectory().Absolute(),
		Env:        s.Env.Environ(),
	}, console)
}

var _ Runnable = (*Executable)(nil)
