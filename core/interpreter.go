package core

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
)

// Interpret splits line on whitespace and dispatches it. Empty lines and
// unknown commands leave the last status alone.
func (s *Shell) Interpret(ctx context.Context, console Console, line string) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return
	}

	status, found := s.Commands.Dispatch(ctx, s, console, tokens[0], tokens[1:])
	if !found {
		Errorf(console, "%s: command not found", color.RedString(tokens[0]))
		return
	}
	s.SetStatus(status)
}

// Interpreter is the interactive read-dispatch loop.
type Interpreter struct {
	Shell    *Shell
	Readline *readline.Instance
	console  Console
}

// NewInterpreter creates a line editor on the given streams. Programs run by
// the loop inherit stdin: the editor only reads it while a line is being
// edited, so anything typed while a program runs goes to the program.
func NewInterpreter(s *Shell, stdin io.Reader, stdout, stderr io.Writer, isTerminal bool) (*Interpreter, error) {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,
		FuncIsTerminal: func() bool {
			return isTerminal
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	s.SetStdin(stdin)

	return &Interpreter{
		Shell:    s,
		Readline: rl,
		console:  NewStreamConsole(rl.Stdout(), rl.Stderr()),
	}, nil
}

// Run reads and dispatches lines until the input ends or a command asks the
// shell to exit. It returns the shell's exit code.
func (i *Interpreter) Run() int {
	s := i.Shell
	for {
		if code, exited := s.Exited(); exited {
			return code
		}

		i.console.WriteLine(s.PromptHeader())
		i.Readline.SetPrompt(s.PromptSymbol())
		line, err := i.Readline.Readline()

		switch {
		case err == io.EOF:
			return s.LastStatus() // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Discard the line being edited.
			continue

		case err != nil:
			s.Log.Error("couldn't read line", "err", err)
			return 1

		case strings.TrimSpace(line) == "":
			continue
		}

		i.runLine(line)
		// Keep the next prompt apart from the command's output.
		i.console.WriteLine("")
	}
}

// runLine dispatches a line, an interrupt cancels the running command
// instead of the shell.
func (i *Interpreter) runLine(line string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	i.Shell.Interpret(ctx, i.console, line)
}

// Close releases the terminal.
func (i *Interpreter) Close() error {
	return i.Readline.Close()
}
