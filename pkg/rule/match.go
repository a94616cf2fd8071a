package rule

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether path matches the glob pattern.
//
// Patterns use doublestar syntax: "*" matches within a path segment, "**"
// matches across segments, and "?", "[...]" and "{a,b}" behave as usual.
// Matching is case sensitive and always uses "/" as the separator.
//
// A pattern without a "/" is tried against the whole path first, then
// against the last path segment, so "*.go" matches "cmd/dcx/main.go".
// Malformed patterns never match.
func Match(p, pattern string) bool {
	if matchGlob(pattern, p) {
		return true
	}

	if strings.Contains(pattern, "/") {
		return false
	}

	return matchGlob(pattern, path.Base(p))
}

func matchGlob(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)

	return err == nil && ok
}

// ValidPattern reports whether pattern is a well-formed glob.
func ValidPattern(pattern string) bool {
	return doublestar.ValidatePattern(pattern)
}
