package commands

import (
	"context"

	"github.com/doinkythederp/rush/core"
)

// SelfTest prints a fixed line, it's used to check that builtins dispatch.
func SelfTest(_ context.Context, _ *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "test",
		Short: "Print a line to show builtins work.",
	}

	return cmd.Run(console, args, func() int {
		if len(cmd.Args()) != 0 {
			return cmd.Usage(console)
		}

		console.WriteLine("Test command!")
		return 0
	})
}

func init() {
	mustAddBuiltin("test", nil, "Check that builtins run.", SelfTest)
}
