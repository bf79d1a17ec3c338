package commands

import (
	"context"
	"errors"
	"io/fs"

	"github.com/doinkythederp/rush/core"
)

// RunExecutable runs the program at an explicit location, bypassing the
// search path and any builtin of the same name.
func RunExecutable(ctx context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "run-executable PATH [ARG]...",
		Short: "Run the program at PATH, relative paths start at the working directory.",
	}

	return cmd.Run(console, args, func() int {
		rest := cmd.Args()
		if len(rest) == 0 {
			return cmd.Usage(console)
		}

		exe, err := core.ResolvePath(s, rest[0], rest[0])
		switch {
		case errors.Is(err, fs.ErrPermission):
			core.Errorf(console, "%s: permission denied", rest[0])
			return core.ExitNotExecutable
		case err != nil:
			core.Errorf(console, "%s: no such executable", rest[0])
			return core.ExitNotFound
		}

		err = exe.Run(ctx, s, console, rest[1:])
		var failed *core.ExecutionFailedError
		if err != nil && !errors.As(err, &failed) {
			core.Errorf(console, "%s: %v", rest[0], err)
		}
		return core.ExitCode(err)
	})
}

func init() {
	mustAddBuiltin("run-executable", []string{"run"}, "Run a program by path.", RunExecutable)
}
