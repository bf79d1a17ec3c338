package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/doinkythederp/rush/core/fspath"
	"github.com/doinkythederp/rush/core/logger"
	"github.com/doinkythederp/rush/core/vos"
)

// CommandManager resolves command names to Runnables and invokes them.
type CommandManager struct {
	builtins []*Builtin
	byName   map[string]*Builtin
}

// NewCommandManager creates a manager holding the given builtins. It panics
// if two of them share a name.
func NewCommandManager(builtins ...*Builtin) *CommandManager {
	m := &CommandManager{
		byName: make(map[string]*Builtin),
	}
	for _, b := range builtins {
		m.MustRegister(b)
	}
	return m
}

// Register adds a builtin. Names and aliases must be unique across all
// builtins.
func (m *CommandManager) Register(b *Builtin) error {
	names := b.Names()
	for _, name := range names {
		if strings.TrimSpace(name) != name || name == "" {
			return fmt.Errorf("builtin %q: invalid name %q", b.Name, name)
		}
		if other, ok := m.byName[name]; ok {
			return fmt.Errorf("builtin %q: name %q is already used by %q", b.Name, name, other.Name)
		}
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			return fmt.Errorf("builtin %q: name %q is listed twice", b.Name, name)
		}
		seen[name] = true
	}

	for _, name := range names {
		m.byName[name] = b
	}
	m.builtins = append(m.builtins, b)
	return nil
}

// MustRegister is like Register but panics on collisions.
func (m *CommandManager) MustRegister(b *Builtin) {
	if err := m.Register(b); err != nil {
		panic(err)
	}
}

// Builtins returns the registered builtins sorted by name.
func (m *CommandManager) Builtins() []*Builtin {
	out := append([]*Builtin(nil), m.builtins...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Builtin looks up a builtin by name or alias.
func (m *CommandManager) Builtin(name string) (*Builtin, bool) {
	b, ok := m.byName[name]
	return b, ok
}

// IsPathLike reports whether name refers to a location rather than a
// command to search for.
func IsPathLike(name string) bool {
	return vos.HasSlash(name) || name == fspath.HomeShorthand
}

// ResolveExecutable resolves name to an external program. name is first
// tried as a location relative to the working directory, if that fails and
// name isn't path-like it's searched for in the search path.
//
// The error is vos.ErrNotFound if nothing matched and fs.ErrPermission if a
// path-like name exists but can't be executed.
//
// Warning: because the working directory is tried first, an executable file
// in it shadows a program of the same name in the search path. Typing "ls"
// in a directory holding an executable named ls runs that file, not
// /bin/ls. Callers that take names from untrusted directories should resolve
// with vos.LookPath themselves.
func (m *CommandManager) ResolveExecutable(s *Shell, name string) (*Executable, error) {
	exe, err := ResolvePath(s, name, name)
	if err == nil || IsPathLike(name) {
		return exe, err
	}

	found, err := vos.LookPath(s.FS, s.Env.SearchDirs(), name)
	if err != nil {
		return nil, err
	}
	return ResolvePath(s, name, found)
}

// ResolvePath validates the program at location, relative locations resolve
// against the working directory. The program is invoked as name.
func ResolvePath(s *Shell, name, location string) (*Executable, error) {
	canonical, err := fspath.Parse(s.Env.Resolver(), location, s.Env.Home())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vos.ErrNotFound, err)
	}
	if err := vos.IsExecutable(s.FS, canonical.Absolute()); err != nil {
		return nil, err
	}

	return NewExecutable(name, canonical), nil
}

// Resolve finds what name refers to. Builtins shadow external programs.
func (m *CommandManager) Resolve(s *Shell, name string) (Runnable, error) {
	if b, ok := m.Builtin(name); ok {
		return b, nil
	}

	exe, err := m.ResolveExecutable(s, name)
	if err != nil {
		return nil, err
	}
	return exe, nil
}

// Dispatch runs the command name with args and returns its status. found is
// false if name didn't refer to anything, the caller is responsible for
// reporting that.
//
// Errors never escape Dispatch, failures are turned into a status and a
// diagnostic on the console.
func (m *CommandManager) Dispatch(ctx context.Context, s *Shell, console Console, name string, args []string) (status int, found bool) {
	command := append([]string{name}, args...)

	runnable, err := m.Resolve(s, name)
	switch {
	case errors.Is(err, fs.ErrPermission):
		Errorf(console, "%s: permission denied", name)
		m.record(s, logger.CommandFailed, command, "", ExitNotExecutable)
		return ExitNotExecutable, true

	case err != nil:
		s.Log.Debug("command not found", "command", name, "err", err)
		m.record(s, logger.UnknownCommand, command, "", ExitNotFound)
		return ExitNotFound, false
	}

	kind, resolvedPath := "builtin", ""
	if exe, ok := runnable.(*Executable); ok {
		kind, resolvedPath = "executable", exe.Path.Absolute()
	}
	m.record(s, logger.RunCommand, command, resolvedPath, 0)

	err = runnable.Run(ctx, s, console, args)
	status = ExitCode(err)
	s.Log.Debug("command finished", "command", name, "kind", kind, "status", status)

	if err != nil {
		var failed *ExecutionFailedError
		if !errors.As(err, &failed) {
			Errorf(console, "%s: %v", name, err)
		}
		m.record(s, logger.CommandFailed, command, resolvedPath, status)
	}

	return status, true
}

func (m *CommandManager) record(s *Shell, eventType logger.EventType, command []string, resolvedPath string, code int) {
	if s.Events == nil {
		return
	}
	err := s.Events.Record(logger.LogEntry{
		Type:         eventType,
		Command:      command,
		ResolvedPath: resolvedPath,
		ExitCode:     code,
	})
	if err != nil {
		s.Log.Warn("couldn't record event", "err", err)
	}
}
