package fspath

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/doinkythederp/rush/core/vos"
	"github.com/doinkythederp/rush/third_party/realpath"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const home = "/home/user"

func memOS(t *testing.T, wd string, dirs ...string) realpath.OS {
	t.Helper()

	vfs := afero.NewMemMapFs()
	for _, dir := range dirs {
		require.NoError(t, vfs.MkdirAll(dir, 0755))
	}

	return vos.NewRealpathOS(vfs, func() (string, error) { return wd, nil })
}

func ExampleCollapse() {
	fmt.Println(Collapse("/home/user", "/home/user"))
	fmt.Println(Collapse("/home/user/src/rush", "/home/user"))
	fmt.Println(Collapse("/home/user2", "/home/user"))
	fmt.Println(Collapse("/etc", "/home/user"))

	// Output: ~
	// ~/src/rush
	// /home/user2
	// /etc
}

func TestPath_Short(t *testing.T) {
	cases := map[string]struct {
		absolute string
		home     string
		want     string
	}{
		"home":              {absolute: "/home/user", home: home, want: "~"},
		"inside-home":       {absolute: "/home/user/a/b", home: home, want: "~/a/b"},
		"outside-home":      {absolute: "/var/log", home: home, want: "/var/log"},
		"sibling-prefix":    {absolute: "/home/username", home: home, want: "/home/username"},
		"parent-of-home":    {absolute: "/home", home: home, want: "/home"},
		"root":              {absolute: "/", home: home, want: "/"},
		"trailing-home":     {absolute: "/home/user/x", home: "/home/user/", want: "~/x"},
		"root-home":         {absolute: "/etc", home: "/", want: "~/etc"},
		"root-home-is-root": {absolute: "/", home: "/", want: "~"},
		"no-home":           {absolute: "/etc", home: "", want: "/etc"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			p := New(tc.absolute, tc.home)
			assert.Equal(t, tc.want, p.Short())
			assert.Equal(t, tc.absolute, p.Absolute())
			assert.Equal(t, tc.absolute, p.String())
		})
	}
}

func TestPath_SetTruncation(t *testing.T) {
	cases := map[string]struct {
		absolute string
		factor   int
		want     string
	}{
		"home-untouched":   {absolute: "/home/user", factor: 1, want: "~"},
		"inside-home":      {absolute: "/home/user/projects/rush", factor: 1, want: "~/p/r"},
		"outside-home":     {absolute: "/usr/local/bin", factor: 2, want: "/us/lo/bi"},
		"short-segments":   {absolute: "/home/user/ab/c", factor: 3, want: "~/ab/c"},
		"exact-length":     {absolute: "/home/user/abc", factor: 3, want: "~/abc"},
		"multibyte":        {absolute: "/home/user/ÿöü", factor: 2, want: "~/ÿö"},
		"negative-factor":  {absolute: "/home/user/projects", factor: -4, want: "~/projects"},
		"zero-is-disabled": {absolute: "/home/user/projects", factor: 0, want: "~/projects"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			p := New(tc.absolute, home)
			p.SetTruncation(tc.factor)
			assert.Equal(t, tc.want, p.Short())
		})
	}
}

func TestPath_SetTruncationIdempotent(t *testing.T) {
	once := New("/home/user/projects/rush", home)
	once.SetTruncation(3)

	twice := New("/home/user/projects/rush", home)
	twice.SetTruncation(3)
	twice.SetTruncation(3)

	assert.Equal(t, once.Short(), twice.Short())
	assert.Equal(t, "~/pro/rus", twice.Short())
}

func TestPath_DisableTruncation(t *testing.T) {
	p := New("/home/user/projects/rush", home)
	p.SetTruncation(1)

	factor, enabled := p.Truncation()
	assert.Equal(t, 1, factor)
	assert.True(t, enabled)

	p.DisableTruncation()
	_, enabled = p.Truncation()
	assert.False(t, enabled)
	assert.Equal(t, "~/projects/rush", p.Short())
}

func TestParse(t *testing.T) {
	rOS := memOS(t, "/home/user", "/home/user/src/rush", "/tmp")

	cases := map[string]struct {
		raw       string
		want      string
		wantShort string
	}{
		"tilde":          {raw: "~", want: "/home/user", wantShort: "~"},
		"tilde-slash":    {raw: "~/src", want: "/home/user/src", wantShort: "~/src"},
		"relative":       {raw: "src/rush", want: "/home/user/src/rush", wantShort: "~/src/rush"},
		"parent":         {raw: "..", want: "/home", wantShort: "/home"},
		"absolute":       {raw: "/tmp", want: "/tmp", wantShort: "/tmp"},
		"relative-dots":  {raw: "./src/../src/./rush/", want: "/home/user/src/rush", wantShort: "~/src/rush"},
		"tilde-up-twice": {raw: "~/../..", want: "/", wantShort: "/"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			p, err := Parse(rOS, tc.raw, home)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Absolute())
			assert.Equal(t, tc.wantShort, p.Short())
		})
	}
}

func TestParse_missing(t *testing.T) {
	rOS := memOS(t, "/", "/home/user")

	_, err := Parse(rOS, "~/missing", home)

	var resolutionErr *ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, "~/missing", resolutionErr.Raw)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestExpandHome(t *testing.T) {
	cases := map[string]string{
		"~":      "/home/user",
		"~/a":    "/home/user/a",
		"~/":     "/home/user/",
		"~/a/..": "/home/user/a/..",
		"~other": "~other",
		"a/~":    "a/~",
		"/abs":   "/abs",
	}

	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, want, ExpandHome(raw, home))
		})
	}
}

func TestPath_Set(t *testing.T) {
	rOS := memOS(t, "/", "/home/user/a", "/opt/tools")

	p := New("/home/user/a", home)
	p.SetTruncation(2)

	assert.True(t, p.Set(rOS, "/opt/tools"))
	assert.Equal(t, "/opt/tools", p.Absolute())
	assert.Equal(t, "/op/to", p.Short(), "truncation survives re-pointing")

	assert.False(t, p.Set(rOS, "/does/not/exist"))
	assert.Equal(t, "/opt/tools", p.Absolute(), "failed set leaves path unchanged")
	assert.Equal(t, "/op/to", p.Short())
}

func TestParse_symlinks(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real", "dir"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real", "sibling"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))
	require.NoError(t, os.Symlink(filepath.Join("real", "dir"), filepath.Join(root, "inner")))

	rOS := vos.NewRealpathOS(afero.NewOsFs(), func() (string, error) { return root, nil })

	cases := map[string]struct {
		raw       string
		want      string
		wantShort string
	}{
		"through-link":     {"link/dir", filepath.Join(root, "real", "dir"), "~/real/dir"},
		"parent-of-link":   {"~/inner/..", filepath.Join(root, "real"), "~/real"},
		"sibling-of-link":  {"inner/../sibling", filepath.Join(root, "real", "sibling"), "~/real/sibling"},
		"tilde-link-twice": {"~/link/dir/../../inner", filepath.Join(root, "real", "dir"), "~/real/dir"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			p, err := Parse(rOS, tc.raw, root)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Absolute())
			assert.Equal(t, tc.wantShort, p.Short())
		})
	}
}

func TestPath_Equal(t *testing.T) {
	a := New("/home/user", home)
	b := New("/home/user", "/")
	c := New("/tmp", home)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
