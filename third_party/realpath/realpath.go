// This software is distributed under the MIT License.
//
// You should have received a copy of the MIT License along with this program.
// If not, see <https://opensource.org/licenses/MIT>

package realpath

import (
	"errors"
	"io/fs"
	"path"
	"strings"
)

// maxLinks bounds symlink expansion, matching the Linux ELOOP limit.
const maxLinks = 40

// ErrTooManyLinks is returned when resolving a path expands too many symlinks.
var ErrTooManyLinks = errors.New("too many levels of symbolic links")

// OS is the subset of the operating system needed to resolve a path.
type OS interface {
	Getwd() (dir string, err error)
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)
}

// Realpath returns the absolute, symlink-free form of fpath. Every component
// is checked with Lstat so the result is known to exist at the time of the
// call.
func Realpath(os OS, fpath string) (string, error) {
	if fpath == "" {
		fpath = "."
	}

	if !path.IsAbs(fpath) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		// Joined without cleaning, ".." must apply to resolved links.
		fpath = wd + "/" + fpath
	}

	resolved := "/"
	pending := components(fpath)
	links := 0

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]

		switch name {
		case "", ".":
			continue
		case "..":
			// resolved never contains links, so lexical parent is correct.
			resolved = path.Dir(resolved)
			continue
		}

		next := path.Join(resolved, name)
		fi, err := os.Lstat(next)
		if err != nil {
			return "", err
		}

		if fi.Mode()&fs.ModeSymlink == 0 {
			resolved = next
			continue
		}

		links++
		if links > maxLinks {
			return "", &fs.PathError{Op: "realpath", Path: fpath, Err: ErrTooManyLinks}
		}

		target, err := os.Readlink(next)
		if err != nil {
			return "", err
		}
		if path.IsAbs(target) {
			resolved = "/"
		}
		pending = append(components(target), pending...)
	}

	return resolved, nil
}

func components(p string) []string {
	return strings.Split(p, "/")
}
