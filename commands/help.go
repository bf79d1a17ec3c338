package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/doinkythederp/rush/core"
)

// Help lists the builtins.
func Help(ctx context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "help [BUILTIN]",
		Short: "List the builtins, or show the help of BUILTIN.",
	}

	return cmd.Run(console, args, func() int {
		switch rest := cmd.Args(); len(rest) {
		case 0:
		case 1:
			b, ok := s.Commands.Builtin(rest[0])
			if !ok {
				core.Errorf(console, "help: no builtin named %q", rest[0])
				return 1
			}
			return core.ExitCode(b.Run(ctx, s, console, []string{"--help"}))
		default:
			return cmd.Usage(console)
		}

		w := core.Stdout(console)
		defer w.Flush()
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		defer tw.Flush()

		fmt.Fprintln(tw, "NAME\tALIASES\tDESCRIPTION")
		for _, b := range s.Commands.Builtins() {
			names := b.Names()
			fmt.Fprintf(tw, "%s\t%s\t%s\n", names[0], strings.Join(names[1:], ", "), b.Short)
		}
		return 0
	})
}

func init() {
	mustAddBuiltin("help", nil, "List the builtins.", Help)
}
