package vos

import (
	"errors"
	"io/fs"
	"os/exec"
	"path"
	"strings"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

// IsExecutable reports nil if file is a regular file with an execute bit set.
func IsExecutable(vfs VFS, file string) error {
	d, err := vfs.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// HasSlash reports whether name should be treated as a path rather than
// searched for.
func HasSlash(name string) bool {
	return strings.Contains(name, "/")
}

// LookPath searches dirs, in order, for an executable named file and returns
// the first match. Names containing a slash are never searched for.
func LookPath(vfs VFS, dirs []string, file string) (string, error) {
	if file == "" || HasSlash(file) {
		return "", ErrNotFound
	}

	for _, dir := range dirs {
		candidate := path.Join(dir, file)
		if err := IsExecutable(vfs, candidate); err == nil {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}
