// Package fspath holds the shell's notion of a filesystem location: a
// canonical absolute path plus the shortened form shown to the user.
package fspath

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/doinkythederp/rush/third_party/realpath"
)

// HomeShorthand is the marker that stands in for the home directory.
const HomeShorthand = "~"

// ResolutionError is returned when a raw path doesn't name an existing
// location.
type ResolutionError struct {
	Raw string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Raw, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Path is a canonical absolute location and its shortened, home-collapsed
// form. The location existed when the Path was built but is never
// re-validated.
//
// Shortening splits on '/', so directory names containing a literal '/' are
// not supported.
type Path struct {
	absolute   string
	home       string
	short      string
	truncation int
}

// New builds a Path from an already canonical location, no filesystem access
// is performed.
func New(absolute, home string) Path {
	if home != "" {
		home = path.Clean(home)
	}
	p := Path{absolute: absolute, home: home}
	p.updateShort()
	return p
}

// Parse expands the home shorthand in raw, canonicalizes it against os and
// builds a Path.
func Parse(os realpath.OS, raw, home string) (Path, error) {
	absolute, err := Resolve(os, raw, home)
	if err != nil {
		return Path{}, err
	}
	return New(absolute, home), nil
}

// Resolve expands the home shorthand in raw and returns its canonical form.
// Relative paths are resolved against the working directory of os.
func Resolve(os realpath.OS, raw, home string) (string, error) {
	absolute, err := realpath.Realpath(os, ExpandHome(raw, home))
	if err != nil {
		return "", &ResolutionError{Raw: raw, Err: err}
	}
	return absolute, nil
}

// ExpandHome replaces a leading "~" with home. Only "~" on its own or
// followed by '/' is expanded, "~user" is left untouched. The result isn't
// cleaned, ".." segments are left for canonicalization.
func ExpandHome(raw, home string) string {
	switch {
	case raw == HomeShorthand:
		return home
	case strings.HasPrefix(raw, HomeShorthand+"/"):
		return home + "/" + raw[len(HomeShorthand)+1:]
	default:
		return raw
	}
}

// Absolute returns the canonical location.
func (p Path) Absolute() string {
	return p.absolute
}

// Home returns the directory the path is collapsed against.
func (p Path) Home() string {
	return p.home
}

// Short returns the home-collapsed and, if enabled, truncated form.
func (p Path) Short() string {
	return p.short
}

// String implements fmt.Stringer.
func (p Path) String() string {
	return p.absolute
}

// Equal reports whether both paths name the same location.
func (p Path) Equal(other Path) bool {
	return p.absolute == other.absolute
}

// Truncation returns the per-segment character limit and whether it's
// enabled.
func (p Path) Truncation() (int, bool) {
	return p.truncation, p.truncation > 0
}

// SetTruncation limits each segment of the short form to factor characters.
// A factor below one disables truncation.
func (p *Path) SetTruncation(factor int) {
	if factor < 0 {
		factor = 0
	}
	p.truncation = factor
	p.updateShort()
}

// DisableTruncation shows full segment names in the short form.
func (p *Path) DisableTruncation() {
	p.SetTruncation(0)
}

// Set re-points the path at raw. It reports false and leaves the path
// unchanged if raw can't be resolved.
func (p *Path) Set(os realpath.OS, raw string) bool {
	absolute, err := Resolve(os, raw, p.home)
	if err != nil {
		return false
	}

	p.absolute = absolute
	p.updateShort()
	return true
}

func (p *Path) updateShort() {
	collapsed := Collapse(p.absolute, p.home)
	if p.truncation <= 0 {
		p.short = collapsed
		return
	}

	segments := strings.Split(collapsed, "/")
	for i, segment := range segments {
		segments[i] = truncate(segment, p.truncation)
	}
	p.short = strings.Join(segments, "/")
}

// Collapse replaces the home prefix of absolute with "~". Only whole segments
// match, so "/home/user2" is not inside "/home/user".
func Collapse(absolute, home string) string {
	switch {
	case home == "":
		return absolute
	case absolute == home:
		return HomeShorthand
	case home == "/":
		return HomeShorthand + absolute
	case strings.HasPrefix(absolute, home+"/"):
		return HomeShorthand + strings.TrimPrefix(absolute, home)
	default:
		return absolute
	}
}

func truncate(segment string, limit int) string {
	if utf8.RuneCountInString(segment) <= limit {
		return segment
	}
	return string([]rune(segment)[:limit])
}
