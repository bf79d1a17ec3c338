package vos

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"sync"
)

// ProcessEnv is the hosting process's environment table and working
// directory. The shell only touches process-level state through it.
type ProcessEnv interface {
	VEnv

	// Chdir changes the process's working directory.
	Chdir(dir string) error

	// Getwd returns the process's working directory.
	Getwd() (string, error)
}

// NewOSProcessEnv returns the environment of the running process.
func NewOSProcessEnv() ProcessEnv {
	return osProcessEnv{}
}

type osProcessEnv struct{}

func (osProcessEnv) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (osProcessEnv) Unsetenv(key string) error           { return os.Unsetenv(key) }
func (osProcessEnv) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (osProcessEnv) Environ() []string                   { return os.Environ() }
func (osProcessEnv) Chdir(dir string) error              { return os.Chdir(dir) }
func (osProcessEnv) Getwd() (string, error)              { return os.Getwd() }

// MemProcessEnv is an in-memory ProcessEnv whose working directory is checked
// against a VFS.
type MemProcessEnv struct {
	*MapEnv

	fs VFS

	mu sync.Mutex
	wd string
}

var _ ProcessEnv = (*MemProcessEnv)(nil)

// NewMemProcessEnv creates a process environment holding environ with the
// working directory set to "/".
func NewMemProcessEnv(fs VFS, environ ...string) *MemProcessEnv {
	return &MemProcessEnv{
		MapEnv: NewMapEnvFromEnvList(environ),
		fs:     fs,
		wd:     "/",
	}
}

// Chdir implements ProcessEnv.Chdir.
func (m *MemProcessEnv) Chdir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !path.IsAbs(dir) {
		dir = path.Join(m.wd, dir)
	}

	fi, err := m.fs.Stat(dir)
	if err != nil {
		return &fs.PathError{Op: "chdir", Path: dir, Err: err}
	}
	if !fi.IsDir() {
		return &fs.PathError{Op: "chdir", Path: dir, Err: errors.New("not a directory")}
	}

	m.wd = path.Clean(dir)
	return nil
}

// Getwd implements ProcessEnv.Getwd.
func (m *MemProcessEnv) Getwd() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wd, nil
}
