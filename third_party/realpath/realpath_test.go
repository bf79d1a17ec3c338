package realpath

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hostOS struct {
	wd string
}

func (h hostOS) Getwd() (string, error) { return h.wd, nil }

func (hostOS) Lstat(name string) (fs.FileInfo, error) { return os.Lstat(name) }

func (hostOS) Readlink(name string) (string, error) { return os.Readlink(name) }

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestRealpath(t *testing.T) {
	root := tempDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(root, "a", "b"), filepath.Join(root, "abs-link")))
	require.NoError(t, os.Symlink("a/b", filepath.Join(root, "rel-link")))
	require.NoError(t, os.Symlink("loop", filepath.Join(root, "loop")))

	h := hostOS{wd: root}
	want := filepath.Join(root, "a", "b")

	cases := map[string]string{
		"absolute":        want,
		"relative":        "a/b",
		"dots":            "./a/./b/",
		"parent":          "a/b/../b",
		"absolute-link":   "abs-link",
		"relative-link":   "rel-link",
		"link-then-dots":  "rel-link/../b",
		"duplicate-slash": "a//b",
	}

	for tn, input := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := Realpath(h, input)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	t.Run("root", func(t *testing.T) {
		got, err := Realpath(h, "/")
		assert.NoError(t, err)
		assert.Equal(t, "/", got)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Realpath(h, "a/missing")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("loop", func(t *testing.T) {
		_, err := Realpath(h, "loop")
		assert.ErrorIs(t, err, ErrTooManyLinks)
	})
}
