// Package pathutil provides the path-key normalization shared by the
// scanner, delta builder, restore orchestrator, and archive components. Every file the
// engine tracks is identified by a PathKey of the form "scope::relpath",
// always using '/' as the separator, regardless of host OS — the same
// normalization the teacher's filesystem package performs before using a
// path as a synchronization cache key.
package pathutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ToSlash normalizes a filesystem path for use inside a PathKey or archive
// entry name: OS separators become '/', and the result is recomposed to
// Unicode Normalization Form C so that paths containing decomposed
// (NFD) accented characters — as macOS's filesystem likes to hand back —
// compare and round-trip identically to their NFC form on other platforms.
func ToSlash(path string) string {
	slashed := filepath.ToSlash(path)
	return norm.NFC.String(slashed)
}

// Key builds the PathKey for a file at relPath (already '/'-normalized)
// within the named scope.
func Key(scope, relPath string) string {
	return scope + "::" + relPath
}

// SplitKey splits a PathKey back into its scope and relative path. It
// returns ok=false if the key doesn't contain the "::" separator.
func SplitKey(key string) (scope, relPath string, ok bool) {
	idx := strings.Index(key, "::")
	if idx < 0 {
		return "", "", false
	}
	return key[:idx], key[idx+2:], true
}
