package commands

import (
	"context"
	"strconv"

	"github.com/doinkythederp/rush/core"
)

// Exit stops the shell after the current command.
func Exit(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "exit [CODE]",
		Short: "Exit the shell with CODE, or 0.",
	}

	return cmd.Run(console, args, func() int {
		code := 0
		switch rest := cmd.Args(); len(rest) {
		case 0:
		case 1:
			parsed, err := strconv.Atoi(rest[0])
			if err != nil || parsed < 0 || parsed > 255 {
				core.Errorf(console, "exit: %s: numeric argument required", rest[0])
				return 2
			}
			code = parsed
		default:
			return cmd.Usage(console)
		}

		s.Exit(code)
		return 0
	})
}

var _ core.BuiltinFunc = Exit

func init() {
	mustAddBuiltin("exit", []string{"quit"}, "Exit the shell.", Exit)
}
