package commands

import (
	"context"
	"strconv"

	"github.com/doinkythederp/rush/core"
)

// Truncate shortens every segment of the prompt's directory.
func Truncate(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "truncate [LENGTH]",
		Short: "Show at most LENGTH (default 1) characters of each directory in the prompt.",
	}

	return cmd.Run(console, args, func() int {
		length := 1
		switch rest := cmd.Args(); len(rest) {
		case 0:
		case 1:
			parsed, err := strconv.Atoi(rest[0])
			if err != nil || parsed < 1 {
				core.Errorf(console, "truncate: invalid length: %q", rest[0])
				return 1
			}
			length = parsed
		default:
			return cmd.Usage(console)
		}

		s.Env.SetTruncation(length)
		return 0
	})
}

// Untruncate shows the prompt's directory in full again.
func Untruncate(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "untruncate",
		Short: "Show the full directory in the prompt.",
	}

	return cmd.Run(console, args, func() int {
		if len(cmd.Args()) != 0 {
			return cmd.Usage(console)
		}

		s.Env.DisableTruncation()
		return 0
	})
}

func init() {
	mustAddBuiltin("truncate", nil, "Shorten directories in the prompt.", Truncate)
	mustAddBuiltin("untruncate", nil, "Stop shortening directories in the prompt.", Untruncate)
}
