package commands

import (
	"context"
	"strings"

	"github.com/doinkythederp/rush/core"
	"github.com/doinkythederp/rush/core/environment"
)

// managedVariables are owned by the shell and can't be overridden.
var managedVariables = map[string]bool{
	environment.User.String():             true,
	environment.Home.String():             true,
	environment.WorkingDirectory.String(): true,
	environment.SearchPath.String():       true,
}

func validVariableName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "=\x00")
}

// SetVariable sets a variable passed to programs the shell runs.
func SetVariable(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "set-variable NAME [VALUE]...",
		Short: "Set NAME to the space separated VALUEs for programs run by the shell.",
	}

	return cmd.Run(console, args, func() int {
		rest := cmd.Args()
		if len(rest) == 0 {
			return cmd.Usage(console)
		}

		name := rest[0]
		switch {
		case !validVariableName(name):
			core.Errorf(console, "set-variable: invalid name: %q", name)
			return 1
		case managedVariables[name]:
			core.Errorf(console, "set-variable: %s is managed by the shell", name)
			return 1
		}

		s.Env.SetVariable(name, strings.Join(rest[1:], " "))
		return 0
	})
}

// UnsetVariable removes variables set with set-variable.
func UnsetVariable(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "unset-variable NAME...",
		Short: "Remove variables set with set-variable.",
	}

	return cmd.Run(console, args, func() int {
		rest := cmd.Args()
		if len(rest) == 0 {
			return cmd.Usage(console)
		}

		ret := 0
		for _, name := range rest {
			if !s.Env.UnsetVariable(name) {
				core.Errorf(console, "unset-variable: %s: not set", name)
				ret = 1
			}
		}
		return ret
	})
}

// Variables prints the shell's variables.
func Variables(_ context.Context, s *core.Shell, console core.Console, args []string) int {
	cmd := &SimpleCommand{
		Use:   "variables [-a]",
		Short: "Print variables set with set-variable.",
	}
	all := cmd.Flags().BoolLong("all", 'a', "print the whole environment programs receive")

	return cmd.Run(console, args, func() int {
		if len(cmd.Args()) != 0 {
			return cmd.Usage(console)
		}

		vars := s.Env.Variables()
		if *all {
			vars = s.Env.Environ()
		}
		for _, v := range vars {
			console.WriteLine(v)
		}
		return 0
	})
}

func init() {
	mustAddBuiltin("set-variable", []string{"set"}, "Set a variable for programs.", SetVariable)
	mustAddBuiltin("unset-variable", []string{"unset"}, "Remove a variable.", UnsetVariable)
	mustAddBuiltin("variables", []string{"env"}, "Print variables.", Variables)
}
