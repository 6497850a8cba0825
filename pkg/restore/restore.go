// Package restore implements the Restore Orchestrator component (spec
// §4.I), the engine's most destructive operation: a nuclear wipe of every
// managed scope followed by a layered, lineage-ordered rebuild from
// archives, tombstone application, empty-directory pruning, and a final
// baseline-refreshing rescan.
//
// Per spec §7's error-handling policy, every phase favors forward progress
// over abort: a failed wipe entry, an unreadable archive, or a tombstone
// that cannot be applied are all logged and skipped rather than treated as
// fatal (a tombstone whose target is already missing is ignored), because the caller's destructive-operation confirmation has already been
// given and a half-applied state is worse than a best-effort full apply
// followed by a rescan that truthfully reports the result.
package restore

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/fonsecajr/blk-engine/pkg/archive"
	"github.com/fonsecajr/blk-engine/pkg/baseline"
	"github.com/fonsecajr/blk-engine/pkg/blk"
	"github.com/fonsecajr/blk-engine/pkg/lineage"
	"github.com/fonsecajr/blk-engine/pkg/logging"
	"github.com/fonsecajr/blk-engine/pkg/manifest"
	"github.com/fonsecajr/blk-engine/pkg/must"
	"github.com/fonsecajr/blk-engine/pkg/pathutil"
	"github.com/fonsecajr/blk-engine/pkg/progress"
	"github.com/fonsecajr/blk-engine/pkg/safety"
	"github.com/fonsecajr/blk-engine/pkg/scan"
)

// preWipeDelay announces intent before the nuclear wipe begins, per spec
// §4.I Phase 1. The caller is responsible for user confirmation; this is
// purely a last-chance pause for the progress stream's consumer to render
// a warning before files start disappearing.
const preWipeDelay = 500 * time.Millisecond

// maxPrunePasses bounds the empty-directory pruning pass count (spec
// §4.I Phase 3).
const maxPrunePasses = 3

// junkBasenames are files that, alone, don't make a directory worth
// keeping — carried verbatim from the original engine's cleanup pass
// (spec §4.I Phase 3 / §9).
var junkBasenames = map[string]bool{
	"Thumbs.db":   true,
	".DS_Store":   true,
	"desktop.ini": true,
}

// junkDirEntryLimit is the "≤2 entries" threshold from spec §9: a
// directory containing only junk files and at most this many entries is
// treated as empty.
const junkDirEntryLimit = 2

// Orchestrator runs restore operations against a managed root.
type Orchestrator struct {
	root       string
	scopes     map[string]string
	exclusions []string
	filter     *safety.Filter
	logger     *logging.Logger
	scanner    *scan.Scanner
}

// New creates an Orchestrator for root with the given scope configuration
// (name -> absolute path) and the exclusions to apply on the commit-phase
// rescan. filter and logger may be nil.
func New(root string, scopes map[string]string, exclusions []string, filter *safety.Filter, logger *logging.Logger) *Orchestrator {
	if filter == nil {
		filter = safety.Default
	}
	return &Orchestrator{
		root:       root,
		scopes:     scopes,
		exclusions: exclusions,
		filter:     filter,
		logger:     logger,
		scanner:    scan.New(filter, logger),
	}
}

// Restore executes the full four-phase restore protocol for targetID and
// reports progress on stream, which may be nil.
func (o *Orchestrator) Restore(targetID string, stream *progress.Stream) error {
	if err := o.wipe(stream); err != nil {
		return errors.Wrap(err, "nuclear wipe failed")
	}

	chain, err := lineage.Chain(o.root, targetID)
	if err != nil {
		return errors.Wrap(err, "unable to resolve lineage")
	}
	if len(chain) == 0 {
		return errors.Errorf("set %q not found", targetID)
	}

	if err := o.rebuild(chain, stream); err != nil {
		return errors.Wrap(err, "layered rebuild failed")
	}

	o.prune(stream)

	if err := o.commit(stream); err != nil {
		return errors.Wrap(err, "unable to commit restored baseline")
	}

	stream.Done("restore complete")
	return nil
}

// wipe is Phase 1: nuclear wipe. For every configured scope root that
// exists, every direct (depth-1) entry not protected by the Safety Filter
// is removed recursively. Scope roots themselves are always preserved.
func (o *Orchestrator) wipe(stream *progress.Stream) error {
	stream.Report(0, "preparing to wipe managed scopes")
	time.Sleep(preWipeDelay)

	for name, root := range o.scopes {
		entries, err := os.ReadDir(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			o.warnf(stream, "unable to read scope %q for wipe: %s", name, err.Error())
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(root, entry.Name())
			if o.filter.Protected(path) {
				continue
			}
			if err := os.RemoveAll(path); err != nil {
				o.warnf(stream, "unable to remove %q during wipe: %s", path, err.Error())
			}
		}
	}

	stream.Report(20, "wipe complete")
	return nil
}

// rebuild is Phase 2: layered rebuild. Each set in chain is extracted and
// applied in order (root first), and its tombstones are applied after its
// own files land — so that a layer that both adds and later tombstones
// the same path ends with the tombstone winning inside that layer (spec
// §5 Ordering).
func (o *Orchestrator) rebuild(chain []*manifest.Manifest, stream *progress.Stream) error {
	total := len(chain)
	for i, set := range chain {
		base := 20.0 + 60.0*float64(i)/float64(total)
		stream.Report(base, "applying "+set.Name)

		scratchDir := filepath.Join(o.root, blk.MetadataDirectoryName, "tmp_extract", set.ID)
		archivePath := manifest.ArchivePath(o.root, set.ID)

		if _, err := os.Stat(archivePath); os.IsNotExist(err) {
			o.warnf(stream, "archive for set %q is missing, skipping", set.ID)
			continue
		}

		if err := os.MkdirAll(scratchDir, 0o755); err != nil {
			o.warnf(stream, "unable to create scratch directory for %q: %s", set.ID, err.Error())
			continue
		}
		if err := archive.Read(archivePath, scratchDir, o.logger); err != nil {
			o.warnf(stream, "unable to read archive for set %q: %s", set.ID, err.Error())
			must.OSRemoveAll(scratchDir, o.logger)
			continue
		}

		o.applyExtractedFiles(scratchDir, stream)
		must.OSRemoveAll(scratchDir, o.logger)

		o.applyTombstones(set.DeletedPaths, stream)
	}
	stream.Report(80, "layered rebuild complete")
	return nil
}

// applyExtractedFiles walks the scratch directory and copies each file
// into its resolved destination, splitting the first path component as
// the scope name and falling back to the Root scope (with the full
// relative path) when that scope name is unknown, per spec §4.I step 2.
func (o *Orchestrator) applyExtractedFiles(scratchDir string, stream *progress.Stream) {
	filepath.Walk(scratchDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		relPath, relErr := filepath.Rel(scratchDir, path)
		if relErr != nil {
			return nil
		}
		relSlash := pathutil.ToSlash(relPath)

		destPath, ok := o.resolveDestination(relSlash)
		if !ok {
			o.warnf(stream, "unable to resolve destination for %q", relSlash)
			return nil
		}
		if o.filter.Protected(destPath) {
			return nil
		}

		if err := copyFile(path, destPath); err != nil {
			o.warnf(stream, "unable to copy %q to %q: %s", path, destPath, err.Error())
		}
		return nil
	})
}

// warnf logs and streams a formatted warning, keeping both diagnostic
// surfaces in sync.
func (o *Orchestrator) warnf(stream *progress.Stream, format string, v ...interface{}) {
	err := errors.Errorf(format, v...)
	o.logger.Warn(err.Error())
	stream.Warn(err)
}

// resolveDestination splits relSlash's first path component off as a
// scope name and joins the remainder onto that scope's configured root.
// If the scope name isn't configured, it falls back to the Root scope
// with the full relative path intact (spec §4.I step 2 compatibility
// fallback).
func (o *Orchestrator) resolveDestination(relSlash string) (string, bool) {
	scopeName, rest, hasSplit := splitFirstComponent(relSlash)
	if hasSplit {
		if scopeRoot, known := o.scopes[scopeName]; known {
			return filepath.Join(scopeRoot, filepath.FromSlash(rest)), true
		}
	}
	if rootPath, known := o.scopes["Root"]; known {
		return filepath.Join(rootPath, filepath.FromSlash(relSlash)), true
	}
	return "", false
}

func splitFirstComponent(relSlash string) (first, rest string, ok bool) {
	for i := 0; i < len(relSlash); i++ {
		if relSlash[i] == '/' {
			return relSlash[:i], relSlash[i+1:], true
		}
	}
	return relSlash, "", false
}

// applyTombstones removes the file at each deletedPaths entry's resolved
// location, ignoring entries whose target is already missing.
func (o *Orchestrator) applyTombstones(deletedPaths []string, stream *progress.Stream) {
	for _, key := range deletedPaths {
		scopeName, relPath, ok := pathutil.SplitKey(key)
		if !ok {
			continue
		}
		scopeRoot, known := o.scopes[scopeName]
		if !known {
			continue
		}
		target := filepath.Join(scopeRoot, filepath.FromSlash(relPath))
		if o.filter.Protected(target) {
			continue
		}
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			o.warnf(stream, "unable to apply tombstone for %q: %s", key, err.Error())
		}
	}
}

// prune is Phase 3: up to maxPrunePasses bottom-up passes removing empty
// directories (and directories containing only "junk" files) within each
// scope, skipping protected paths and the scope root itself.
func (o *Orchestrator) prune(stream *progress.Stream) {
	stream.Report(85, "pruning empty directories")
	for pass := 0; pass < maxPrunePasses; pass++ {
		removedAny := false
		for _, root := range o.scopes {
			if o.pruneScope(root) {
				removedAny = true
			}
		}
		if !removedAny {
			break
		}
	}
	stream.Report(90, "pruning complete")
}

// pruneScope walks root bottom-up, removing directories that are empty or
// contain only junk files, and reports whether it removed anything.
func (o *Orchestrator) pruneScope(root string) bool {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return false
	}

	var dirs []string
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err == nil && info != nil && info.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})

	// Process deepest paths first so that a parent only empties out after
	// its children have already been pruned in this pass.
	removed := false
	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]
		if o.filter.Protected(dir) {
			continue
		}
		if isEffectivelyEmpty(dir) {
			must.OSRemoveAll(dir, o.logger)
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				removed = true
			}
		}
	}
	return removed
}

// isEffectivelyEmpty reports whether dir has no entries, or only entries
// that are "junk" files (spec §9) within the configured count limit.
func isEffectivelyEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	if len(entries) == 0 {
		return true
	}
	if len(entries) > junkDirEntryLimit {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() || !junkBasenames[entry.Name()] {
			return false
		}
	}
	return true
}

// commit is Phase 4: rescan every configured scope from scratch (no
// reuse) and overwrite the baseline.
func (o *Orchestrator) commit(stream *progress.Stream) error {
	stream.Report(95, "rescanning and committing baseline")
	fresh, err := o.scanner.Scan(o.scopes, o.exclusions, nil)
	if err != nil {
		return err
	}
	return baseline.Save(o.root, fresh)
}

func copyFile(sourcePath, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, data, 0o644)
}
