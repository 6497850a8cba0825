// Package safety implements the single predicate that gates every
// destructive or scan-including operation in the engine: Filter.Protected.
// It is deliberately paranoid — a false positive (treating a safe path as
// protected) only costs the user a missing backup entry, while a false
// negative can destroy the engine's own metadata, its source tree, or the
// host environment. Every caller must treat its verdict as final.
package safety

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fonsecajr/blk-engine/pkg/blk"
)

// protectedSegments are path segments (matched case-insensitively, as a
// full path component) that are never touched regardless of where they
// appear in a managed tree.
var protectedSegments = map[string]bool{
	"src":      true,
	"target":   true,
	".git":     true,
	".vscode":  true,
}

// protectedBasenames are project manifest/lock file names for the build
// system used to ship this tool (Go) — they're never part of a user's
// managed content but could easily sit beside it if the engine's own
// source lives inside a managed scope during development.
var protectedBasenames = map[string]bool{
	"go.mod": true,
	"go.sum": true,
}

// Filter holds the process-wide state needed to evaluate Protected: the
// resolved path of the currently running executable, looked up once since
// os.Executable can be a syscall on some platforms (the original engine
// makes the same one-time-resolution trade-off).
type Filter struct {
	exePath     string
	exePathOnce sync.Once
}

// Default is the package-level filter instance; the predicate carries no
// per-call state, so a single shared instance is always safe to use.
var Default = &Filter{}

// Protected reports whether path should be excluded from every scan and
// shielded from every destructive operation (nuclear wipe, rebuild,
// tombstone application). The check is case-insensitive throughout.
func (f *Filter) Protected(path string) bool {
	normalized := filepath.ToSlash(path)
	lower := strings.ToLower(normalized)

	// The engine's own metadata directory, anywhere it appears in the path.
	if strings.Contains(lower, "/"+blk.MetadataDirectoryName+"/") ||
		strings.HasPrefix(lower, blk.MetadataDirectoryName+"/") ||
		strings.HasSuffix(lower, "/"+blk.MetadataDirectoryName) ||
		lower == blk.MetadataDirectoryName {
		return true
	}

	segments := strings.Split(normalized, "/")
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		segmentLower := strings.ToLower(segment)
		if protectedSegments[segmentLower] {
			return true
		}
		if protectedBasenames[segmentLower] {
			return true
		}
	}

	if f.isCurrentExecutable(path) {
		return true
	}

	return false
}

// isCurrentExecutable reports whether path refers to the binary currently
// executing. The executable's own path is resolved once and cached.
func (f *Filter) isCurrentExecutable(path string) bool {
	f.exePathOnce.Do(func() {
		if resolved, err := os.Executable(); err == nil {
			if abs, err := filepath.Abs(resolved); err == nil {
				f.exePath = filepath.Clean(abs)
			} else {
				f.exePath = filepath.Clean(resolved)
			}
		}
	})
	if f.exePath == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.Clean(abs) == f.exePath
}

// Protected is a convenience wrapper around Default.Protected.
func Protected(path string) bool {
	return Default.Protected(path)
}
