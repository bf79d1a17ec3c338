package vos

import (
	"errors"
	"io/fs"

	"github.com/doinkythederp/rush/third_party/realpath"
	"github.com/spf13/afero"
)

// VFS is the filesystem the shell resolves paths and executables against.
type VFS = afero.Fs

// NewOsFs returns a VFS backed by the host filesystem.
func NewOsFs() VFS {
	return afero.NewOsFs()
}

// NewRealpathOS adapts a VFS into the interface needed by realpath.Realpath,
// relative paths are resolved against getwd.
func NewRealpathOS(base VFS, getwd func() (string, error)) realpath.OS {
	return &realpathOs{getwd: getwd, base: base}
}

type realpathOs struct {
	getwd func() (string, error)
	base  VFS
}

var _ realpath.OS = (*realpathOs)(nil)

func (r *realpathOs) Getwd() (string, error) {
	return r.getwd()
}

func (r *realpathOs) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := r.base.(afero.Lstater); ok {
		stat, _, err := lstater.LstatIfPossible(name)
		return stat, err
	}
	return r.base.Stat(name)
}

func (r *realpathOs) Readlink(name string) (string, error) {
	if reader, ok := r.base.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(name)
	}
	return "", &fs.PathError{Op: "readlink", Path: name, Err: errors.New("not a link")}
}
