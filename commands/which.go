package commands

import (
	"context"
	"errors"
	"io/fs"

	"github.com/doinkythederp/rush/core"
)

// Which reports what each name would run.
func Which(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "which NAME...",
		Short: "Show whether each NAME is a builtin or which program it runs.",
	}

	return cmd.RunEachArg(console, args, func(name string) error {
		runnable, err := s.Commands.Resolve(s, name)
		switch {
		case errors.Is(err, fs.ErrPermission):
			return errors.New("permission denied")
		case err != nil:
			return errors.New("not found")
		}

		switch r := runnable.(type) {
		case *core.Builtin:
			if r.Name == name {
				core.Printf(console, "%s: shell builtin", name)
			} else {
				core.Printf(console, "%s: shell builtin (alias of %s)", name, r.Name)
			}
		case *core.Executable:
			console.WriteLine(r.Path.Absolute())
		}
		return nil
	})
}

func init() {
	mustAddBuiltin("which", []string{"type"}, "Locate a command.", Which)
}
