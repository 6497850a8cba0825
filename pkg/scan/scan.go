// Package scan implements the Hasher & Scanner component (spec §4.B): it
// walks a set of configured scopes and produces a PathKey -> FileEntry
// map, reusing a prior hash whenever size and modification time haven't
// changed so that steady-state scans cost O(changed bytes).
package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/fonsecajr/blk-engine/pkg/logging"
	"github.com/fonsecajr/blk-engine/pkg/model"
	"github.com/fonsecajr/blk-engine/pkg/pathutil"
	"github.com/fonsecajr/blk-engine/pkg/safety"
)

// Scanner walks configured scopes and hashes their contents.
type Scanner struct {
	filter *safety.Filter
	logger *logging.Logger
}

// New creates a Scanner. filter may be nil, in which case safety.Default is
// used; logger may be nil.
func New(filter *safety.Filter, logger *logging.Logger) *Scanner {
	if filter == nil {
		filter = safety.Default
	}
	return &Scanner{filter: filter, logger: logger}
}

// Scan walks every scope in scopes (name -> absolute root path), honoring
// exclusions (globs with substring fallback, per spec §4.B/§9), and
// returns a PathKey -> FileEntry map. prior, if non-nil, supplies cached
// hashes for unchanged files (matched by size and modification time).
func (s *Scanner) Scan(scopes map[string]string, exclusions []string, prior model.Baseline) (model.Baseline, error) {
	result := make(model.Baseline)
	for name, root := range scopes {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "unable to stat scope %q", name)
		}
		if !info.IsDir() {
			continue
		}
		if err := s.scanScope(name, root, exclusions, prior, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Scanner) scanScope(name, root string, exclusions []string, prior model.Baseline, result model.Baseline) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Warnf("unable to access %q: %s", path, err.Error())
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if s.filter.Protected(path) {
			return nil
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			s.logger.Warnf("unable to relativize %q: %s", path, relErr.Error())
			return nil
		}
		relSlash := pathutil.ToSlash(relPath)
		fullSlash := pathutil.ToSlash(path)
		if MatchesExclusion(fullSlash, exclusions) {
			return nil
		}

		key := pathutil.Key(name, relSlash)
		entry := s.buildEntry(path, info, key, prior)
		result[key] = entry
		return nil
	})
}

// buildEntry computes the FileEntry for path, reusing the prior hash when
// size and modification time are unchanged (the scanner's sole reuse
// heuristic; hash equality remains the Diff Engine's sole change
// criterion).
func (s *Scanner) buildEntry(path string, info os.FileInfo, key string, prior model.Baseline) model.FileEntry {
	size := uint64(0)
	modified := uint64(0)
	if info != nil {
		size = uint64(info.Size())
		modified = uint64(info.ModTime().Unix())
	}

	if prior != nil {
		if cached, ok := prior[key]; ok && cached.Size == size && cached.Modified == modified {
			return model.FileEntry{Hash: cached.Hash, Size: size, Modified: modified}
		}
	}

	hash, err := hashFile(path)
	if err != nil {
		s.logger.Warnf("unable to hash %q: %s", path, err.Error())
		return model.FileEntry{Hash: "", Size: size, Modified: modified}
	}
	return model.FileEntry{Hash: hash, Size: size, Modified: modified}
}

// hashFile streams path through SHA-256 and returns the 64-character
// lowercase hex digest.
func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// MatchesExclusion reports whether normalizedPath (using '/' separators)
// matches any exclusion pattern: first as a doublestar glob against the
// whole path and against every trailing run of its components (so "*.log"
// excludes a .log file at any depth), then, if that fails to match, as a
// plain substring — the permissive "glob-first, substring-fallback" policy
// of spec §4.B/§9.
func MatchesExclusion(normalizedPath string, exclusions []string) bool {
	for _, pattern := range exclusions {
		if pattern == "" {
			continue
		}
		if matched, err := doublestar.Match(pattern, normalizedPath); err == nil && matched {
			return true
		}
		for i := 0; i < len(normalizedPath); i++ {
			if normalizedPath[i] != '/' {
				continue
			}
			if matched, err := doublestar.Match(pattern, normalizedPath[i+1:]); err == nil && matched {
				return true
			}
		}
		if strings.Contains(normalizedPath, pattern) {
			return true
		}
	}
	return false
}
