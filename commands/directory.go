package commands

import (
	"context"
	"errors"

	"github.com/doinkythederp/rush/core"
	"github.com/doinkythederp/rush/core/environment"
)

// WorkingDirectory prints the current directory.
func WorkingDirectory(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "working-directory [-s]",
		Short: "Print the name of the current working directory.",
	}
	short := cmd.Flags().BoolLong("short", 's', "print the shortened form shown in the prompt")

	return cmd.Run(console, args, func() int {
		if len(cmd.Args()) != 0 {
			return cmd.Usage(console)
		}

		wd := s.Env.WorkingDirectory()
		if *short {
			console.WriteLine(wd.Short())
		} else {
			console.WriteLine(wd.Absolute())
		}
		return 0
	})
}

// ChangeDirectory changes the current directory, home by default.
func ChangeDirectory(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "change-directory [DIR]",
		Short: "Change the working directory to DIR, or home.",
	}

	return cmd.Run(console, args, func() int {
		target := s.Env.Home()
		switch rest := cmd.Args(); len(rest) {
		case 0:
		case 1:
			target = rest[0]
		default:
			return cmd.Usage(console)
		}

		return reportDirectoryChange(console, s.SetWorkingDirectory(target))
	})
}

// GoBack returns to the previous directory.
func GoBack(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "go-back",
		Short: "Return to the previous working directory.",
	}

	return cmd.Run(console, args, func() int {
		if len(cmd.Args()) != 0 {
			return cmd.Usage(console)
		}
		return reportDirectoryChange(console, s.Env.GoBack())
	})
}

// GoForward undoes the last go-back.
func GoForward(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "go-forward",
		Short: "Undo the last go-back.",
	}

	return cmd.Run(console, args, func() int {
		if len(cmd.Args()) != 0 {
			return cmd.Usage(console)
		}
		return reportDirectoryChange(console, s.Env.GoForward())
	})
}

func reportDirectoryChange(console core.Console, err error) int {
	var dirErr *environment.DirectoryError
	var syncErr *environment.SyncError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &dirErr):
		core.Errorf(console, "Invalid path: %s", dirErr.Target)
	case errors.Is(err, environment.ErrNoPreviousDirectory):
		core.Errorf(console, "No previous directory")
	case errors.Is(err, environment.ErrNoNextDirectory):
		core.Errorf(console, "No next directory")
	case errors.As(err, &syncErr):
		// The shell moved but the process didn't, let the user know.
		core.Errorf(console, "warning: %v", syncErr)
	default:
		core.Errorf(console, "%v", err)
	}
	return 1
}

// DirectoryHistory lists the back and forward history around the current
// directory.
func DirectoryHistory(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "directory-history",
		Short: "List visited directories, oldest first. The current one is marked with '*'.",
	}

	return cmd.Run(console, args, func() int {
		if len(cmd.Args()) != 0 {
			return cmd.Usage(console)
		}

		for _, p := range s.Env.BackHistory() {
			core.Printf(console, "  %s", p.Short())
		}
		core.Printf(console, "* %s", s.Env.WorkingDirectory().Short())
		for _, p := range s.Env.ForwardHistory() {
			core.Printf(console, "  %s", p.Short())
		}
		return 0
	})
}

func init() {
	mustAddBuiltin("working-directory", []string{"pwd"}, "Print the working directory.", WorkingDirectory)
	mustAddBuiltin("change-directory", []string{"cd"}, "Change the working directory.", ChangeDirectory)
	mustAddBuiltin("go-back", []string{"back"}, "Return to the previous directory.", GoBack)
	mustAddBuiltin("go-forward", []string{"forward"}, "Undo the last go-back.", GoForward)
	mustAddBuiltin("directory-history", []string{"dirs"}, "List visited directories.", DirectoryHistory)
}
