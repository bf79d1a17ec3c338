package commands

import (
	"context"

	"github.com/doinkythederp/rush/core"
)

// clearSequence erases the screen and homes the cursor on VT100 compatible
// terminals.
const clearSequence = "\033[2J\033[1;1H"

// ClearTerminal clears the screen.
func ClearTerminal(_ context.Context, _ *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "clear-terminal",
		Short: "Clear the terminal screen.",
	}

	return cmd.Run(console, args, func() int {
		if len(cmd.Args()) != 0 {
			return cmd.Usage(console)
		}

		w := core.Stdout(console)
		w.Write([]byte(clearSequence))
		w.Flush()
		return 0
	})
}

func init() {
	mustAddBuiltin("clear-terminal", []string{"clear"}, "Clear the terminal.", ClearTerminal)
}
