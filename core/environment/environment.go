// Package environment tracks the shell's user, home, working directory,
// search path and directory history, and mirrors the externally visible parts
// into the hosting process.
package environment

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/doinkythederp/rush/core/fspath"
	"github.com/doinkythederp/rush/core/vos"
	"github.com/doinkythederp/rush/third_party/realpath"
)

// Variable identifies a process environment variable the shell manages.
type Variable int

const (
	User Variable = iota
	Home
	WorkingDirectory
	SearchPath
)

// String returns the conventional name of the variable.
func (v Variable) String() string {
	switch v {
	case User:
		return "USER"
	case Home:
		return "HOME"
	case WorkingDirectory:
		return "PWD"
	case SearchPath:
		return "PATH"
	default:
		return fmt.Sprintf("Variable(%d)", int(v))
	}
}

var (
	// ErrNoPreviousDirectory is returned when going back with an empty history.
	ErrNoPreviousDirectory = errors.New("no previous directory")

	// ErrNoNextDirectory is returned when going forward with an empty history.
	ErrNoNextDirectory = errors.New("no next directory")

	// ErrNotDirectory is wrapped by DirectoryError when the target exists but
	// isn't a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// MissingVariableError is returned at startup when a required variable isn't
// set in the hosting process.
type MissingVariableError struct {
	Variable Variable
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing environment variable %s", e.Variable)
}

// DirectoryError is returned when a directory change target can't be
// resolved.
type DirectoryError struct {
	Target string
	Err    error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("invalid directory %s: %v", e.Target, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// SyncError is returned when the hosting process rejects an update. The
// in-memory state has already changed when it's returned.
type SyncError struct {
	Variable Variable
	Err      error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("failed to update %s: %v", e.Variable, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Environment is the shell's view of its surroundings. It's owned by the
// shell's main flow and isn't safe for concurrent use.
type Environment struct {
	user       string
	home       string
	wd         fspath.Path
	searchPath []fspath.Path

	// back holds previous directories, most recent last.
	back []fspath.Path
	// forward holds directories left by going back, most recent first.
	forward []fspath.Path

	variables map[string]string

	proc     vos.ProcessEnv
	fs       vos.VFS
	resolver realpath.OS
}

// New reads USER, HOME, PWD and PATH from proc. Every variable is required.
// PATH entries that don't resolve are dropped.
func New(proc vos.ProcessEnv, vfs vos.VFS) (*Environment, error) {
	values := make(map[Variable]string)
	for _, v := range []Variable{User, Home, WorkingDirectory, SearchPath} {
		value, ok := proc.LookupEnv(v.String())
		if !ok {
			return nil, &MissingVariableError{Variable: v}
		}
		values[v] = value
	}

	env := &Environment{
		user:      values[User],
		proc:      proc,
		fs:        vfs,
		variables: make(map[string]string),
	}
	env.resolver = vos.NewRealpathOS(vfs, env.getwd)

	// Canonicalize home so it collapses against canonical locations, fall
	// back to the raw value if it doesn't exist.
	env.home = filepath.Clean(values[Home])
	if home, err := fspath.Resolve(env.resolver, env.home, env.home); err == nil {
		env.home = home
	}

	wd, err := fspath.Parse(env.resolver, values[WorkingDirectory], env.home)
	if err != nil {
		return nil, &DirectoryError{Target: values[WorkingDirectory], Err: err}
	}
	env.wd = wd
	env.searchPath = env.parseSearchPath(values[SearchPath])

	if err := env.Sync(WorkingDirectory); err != nil {
		return nil, err
	}

	return env, nil
}

// getwd resolves relative paths against the shell's directory once it's
// known, and the process's before that.
func (e *Environment) getwd() (string, error) {
	if wd := e.wd.Absolute(); wd != "" {
		return wd, nil
	}
	return e.proc.Getwd()
}

func (e *Environment) parseSearchPath(raw string) []fspath.Path {
	var out []fspath.Path
	for _, entry := range filepath.SplitList(raw) {
		if entry == "" {
			continue
		}
		p, err := fspath.Parse(e.resolver, entry, e.home)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// User returns the name of the user running the shell.
func (e *Environment) User() string {
	return e.user
}

// Home returns the canonical home directory.
func (e *Environment) Home() string {
	return e.home
}

// WorkingDirectory returns the current directory.
func (e *Environment) WorkingDirectory() fspath.Path {
	return e.wd
}

// Resolver returns the interface used to canonicalize paths, relative paths
// resolve against the working directory.
func (e *Environment) Resolver() realpath.OS {
	return e.resolver
}

// SearchPath returns a copy of the directories searched for executables.
func (e *Environment) SearchPath() []fspath.Path {
	return append([]fspath.Path(nil), e.searchPath...)
}

// SearchDirs returns the absolute search path directories in order.
func (e *Environment) SearchDirs() []string {
	dirs := make([]string, len(e.searchPath))
	for i, p := range e.searchPath {
		dirs[i] = p.Absolute()
	}
	return dirs
}

// BackHistory returns a copy of previous directories, most recent last.
func (e *Environment) BackHistory() []fspath.Path {
	return append([]fspath.Path(nil), e.back...)
}

// ForwardHistory returns a copy of next directories, most recent first.
func (e *Environment) ForwardHistory() []fspath.Path {
	return append([]fspath.Path(nil), e.forward...)
}

// SetTruncation sets the truncation factor of the working directory, it's
// carried over to every directory changed into afterwards.
func (e *Environment) SetTruncation(factor int) {
	e.wd.SetTruncation(factor)
}

// DisableTruncation turns off truncation of the working directory.
func (e *Environment) DisableTruncation() {
	e.wd.DisableTruncation()
}

// SetWorkingDirectory changes to raw. If the target differs from the current
// directory, the current one is pushed onto the back history (evicting the
// oldest entries beyond historyLimit, if it's positive) and the forward
// history is cleared. Nothing changes if raw can't be resolved.
func (e *Environment) SetWorkingDirectory(raw string, historyLimit int) error {
	next, err := fspath.Parse(e.resolver, raw, e.home)
	if err != nil {
		return &DirectoryError{Target: raw, Err: err}
	}
	if info, err := e.fs.Stat(next.Absolute()); err != nil {
		return &DirectoryError{Target: raw, Err: err}
	} else if !info.IsDir() {
		return &DirectoryError{Target: raw, Err: ErrNotDirectory}
	}

	if next.Equal(e.wd) {
		return nil
	}

	e.back = append(e.back, e.wd)
	if historyLimit > 0 && len(e.back) > historyLimit {
		e.back = append([]fspath.Path(nil), e.back[len(e.back)-historyLimit:]...)
	}
	e.forward = nil
	e.install(next)

	return e.Sync(WorkingDirectory)
}

// GoBack returns to the most recent previous directory.
func (e *Environment) GoBack() error {
	if len(e.back) == 0 {
		return ErrNoPreviousDirectory
	}

	last := len(e.back) - 1
	previous := e.back[last]
	e.back = e.back[:last]
	e.forward = append([]fspath.Path{e.wd}, e.forward...)
	e.install(previous)

	return e.Sync(WorkingDirectory)
}

// GoForward undoes the most recent GoBack.
func (e *Environment) GoForward() error {
	if len(e.forward) == 0 {
		return ErrNoNextDirectory
	}

	next := e.forward[0]
	e.forward = e.forward[1:]
	e.back = append(e.back, e.wd)
	e.install(next)

	return e.Sync(WorkingDirectory)
}

// install makes p the working directory keeping the display settings.
func (e *Environment) install(p fspath.Path) {
	if factor, ok := e.wd.Truncation(); ok {
		p.SetTruncation(factor)
	} else {
		p.DisableTruncation()
	}
	e.wd = p
}

// Sync pushes the in-memory value of each variable into the hosting process.
// Syncing the working directory also changes the process's directory.
func (e *Environment) Sync(vars ...Variable) error {
	for _, v := range vars {
		var err error
		switch v {
		case User:
			err = e.proc.Setenv(v.String(), e.user)
		case Home:
			err = e.proc.Setenv(v.String(), e.home)
		case WorkingDirectory:
			if err = e.proc.Chdir(e.wd.Absolute()); err == nil {
				err = e.proc.Setenv(v.String(), e.wd.Absolute())
			}
		case SearchPath:
			err = e.proc.Setenv(v.String(), strings.Join(e.SearchDirs(), string(filepath.ListSeparator)))
		}

		if err != nil {
			return &SyncError{Variable: v, Err: err}
		}
	}

	return nil
}

// SetVariable sets a shell variable. Shell variables are passed to child
// processes but never written into the hosting process.
func (e *Environment) SetVariable(name, value string) {
	e.variables[name] = value
}

// Variable looks up a shell variable.
func (e *Environment) Variable(name string) (string, bool) {
	value, ok := e.variables[name]
	return value, ok
}

// UnsetVariable removes a shell variable, it reports whether it was set.
func (e *Environment) UnsetVariable(name string) bool {
	_, ok := e.variables[name]
	delete(e.variables, name)
	return ok
}

// Variables returns the shell variables as sorted "key=value" pairs.
func (e *Environment) Variables() []string {
	out := make([]string, 0, len(e.variables))
	for k, v := range e.variables {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Environ returns the environment for child processes: the hosting process's
// variables overlaid with the shell variables.
func (e *Environment) Environ() []string {
	merged := vos.NewMapEnvFromEnvList(e.proc.Environ())
	for k, v := range e.variables {
		merged.Setenv(k, v)
	}
	return merged.Environ()
}
