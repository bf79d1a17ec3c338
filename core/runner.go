package core

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Command is a single execution of an external program.
type Command struct {
	Executable *Executable
	Args       []string

	// Dir is the working directory of the child, the shell's if empty.
	Dir string
	// Env is the child's environment, the shell's if nil.
	Env []string
}

// Runner starts external programs and streams their output into a Console.
type Runner struct {
	// Stdin is passed to the children unchanged, nil means no input.
	Stdin io.Reader
	// Log receives debug information about each execution, may be nil.
	Log *log.Logger
}

// Run starts the program, forwards its stdout and stderr line by line to
// console and waits for it to exit.
//
// Both streams are drained by their own goroutine. Lines from one stream keep
// their order, but there's no ordering between the streams. Neither goroutine
// outlives the call.
func (r *Runner) Run(ctx context.Context, c Command, console Console) error {
	path := c.Executable.Path.Absolute()

	cmd := exec.CommandContext(ctx, path, c.Args...)
	if c.Executable.Name != "" {
		cmd.Args[0] = c.Executable.Name
	}
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = r.Stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &SpawnError{Path: path, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &SpawnError{Path: path, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return &SpawnError{Path: path, Err: err}
	}
	r.debug("started process", "path", path, "pid", cmd.Process.Pid)

	locked := NewLockedConsole(console)

	var readers errgroup.Group
	readers.Go(func() error {
		return forwardLines(stdout, locked.WriteLine)
	})
	readers.Go(func() error {
		return forwardLines(stderr, locked.WriteErrorLine)
	})
	readErr := readers.Wait()

	// Wait closes the pipes, so it must only run once both are drained.
	waitErr := cmd.Wait()
	r.debug("process exited", "path", path, "state", cmd.ProcessState)

	var exitErr *exec.ExitError
	switch {
	case errors.As(waitErr, &exitErr):
		code := exitErr.ExitCode()
		if code < 0 {
			// Terminated by a signal.
			code = ExitNotExecutable
		}
		return &ExecutionFailedError{Code: code}
	case waitErr != nil:
		return waitErr
	default:
		return readErr
	}
}

func (r *Runner) debug(msg string, keyvals ...interface{}) {
	if r.Log != nil {
		r.Log.Debug(msg, keyvals...)
	}
}

// forwardLines writes each line of src to write. Lines have no length limit,
// a final line without a terminator is still forwarded.
func forwardLines(src io.Reader, write func(string)) error {
	reader := bufio.NewReader(src)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			write(strings.TrimSuffix(line, "\r"))
		}

		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			// Keep draining so the child never blocks on a full pipe.
			_, _ = io.Copy(io.Discard, reader)
			return err
		}
	}
}
