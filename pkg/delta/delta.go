// Package delta implements the Delta Builder component (spec §4.G): given
// a parent baseline and the current on-disk state, it stages only the
// changed/new files, archives the staging tree, writes the new set's
// manifest (including tombstones for files deleted since the parent
// baseline), and refreshes the baseline.
package delta

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/fonsecajr/blk-engine/pkg/archive"
	"github.com/fonsecajr/blk-engine/pkg/baseline"
	"github.com/fonsecajr/blk-engine/pkg/blk"
	"github.com/fonsecajr/blk-engine/pkg/logging"
	"github.com/fonsecajr/blk-engine/pkg/manifest"
	"github.com/fonsecajr/blk-engine/pkg/model"
	"github.com/fonsecajr/blk-engine/pkg/must"
	"github.com/fonsecajr/blk-engine/pkg/pathutil"
	"github.com/fonsecajr/blk-engine/pkg/progress"
	"github.com/fonsecajr/blk-engine/pkg/safety"
	"github.com/fonsecajr/blk-engine/pkg/scan"
)

// Request describes a save-delta operation.
type Request struct {
	Name       string
	ParentID   *string
	Scopes     map[string]string // scope name -> absolute root path
	Exclusions []string
}

// Builder runs save-delta operations against a managed root.
type Builder struct {
	root    string
	scanner *scan.Scanner
	filter  *safety.Filter
	logger  *logging.Logger
}

// New creates a Builder rooted at root. filter and logger may be nil.
func New(root string, filter *safety.Filter, logger *logging.Logger) *Builder {
	if filter == nil {
		filter = safety.Default
	}
	return &Builder{
		root:    root,
		scanner: scan.New(filter, logger),
		filter:  filter,
		logger:  logger,
	}
}

func stagingDir(root, id string) string {
	return filepath.Join(root, blk.MetadataDirectoryName, "staging", id)
}

// Save runs the Delta Builder algorithm of spec §4.G and returns the new
// set's manifest. stream may be nil.
func (b *Builder) Save(req Request, stream *progress.Stream) (*manifest.Manifest, error) {
	stream.Report(0, "deriving set id")
	id, err := manifest.DeriveUniqueID(b.root, req.Name)
	if err != nil {
		return nil, errors.Wrap(err, "unable to derive set id")
	}

	stream.Report(5, "loading baseline")
	parentBaseline := baseline.Load(b.root)

	stream.Report(10, "computing tombstones")
	deletedPaths := b.computeTombstones(parentBaseline, req.Scopes)

	m := &manifest.Manifest{
		ID:           id,
		Name:         req.Name,
		ParentID:     req.ParentID,
		CreatedAt:    time.Now().Unix(),
		Scopes:       scopeNames(req.Scopes),
		Exclusions:   req.Exclusions,
		DeletedPaths: deletedPaths,
	}

	stagePath := stagingDir(b.root, id)
	if err := os.MkdirAll(stagePath, 0o755); err != nil {
		return nil, errors.Wrap(err, "unable to create staging directory")
	}
	defer must.OSRemoveAll(stagePath, b.logger)

	stream.Report(20, "scanning scopes for changes")
	current, err := b.scanner.Scan(req.Scopes, req.Exclusions, nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to scan scopes")
	}

	stream.Report(40, "staging changed files")
	if err := b.stageChangedFiles(stagePath, req.Scopes, current, parentBaseline); err != nil {
		return nil, errors.Wrap(err, "unable to stage changed files")
	}

	stream.Report(60, "archiving staged files")
	archivePath := manifest.ArchivePath(b.root, id)
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return nil, errors.Wrap(err, "unable to create snapshots directory")
	}
	if err := archive.Write(archivePath, stagePath, b.logger); err != nil {
		return nil, errors.Wrap(err, "unable to write archive")
	}

	stream.Report(80, "writing manifest")
	if err := manifest.Save(b.root, m); err != nil {
		return nil, errors.Wrap(err, "unable to write manifest")
	}

	stream.Report(90, "refreshing baseline")
	refreshed, err := b.scanner.Scan(req.Scopes, req.Exclusions, parentBaseline)
	if err != nil {
		return nil, errors.Wrap(err, "unable to refresh baseline")
	}
	if err := baseline.Save(b.root, refreshed); err != nil {
		return nil, errors.Wrap(err, "unable to save baseline")
	}

	stream.Done("set saved")
	return m, nil
}

// computeTombstones finds every key in parentBaseline whose scope is
// included in scopes and whose physical file no longer exists under its
// scope root, per spec §4.G step 3.
func (b *Builder) computeTombstones(parentBaseline model.Baseline, scopes map[string]string) []string {
	var deleted []string
	for key := range parentBaseline {
		scopeName, relPath, ok := pathutil.SplitKey(key)
		if !ok {
			continue
		}
		scopeRoot, included := scopes[scopeName]
		if !included {
			continue
		}
		fullPath := filepath.Join(scopeRoot, filepath.FromSlash(relPath))
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			deleted = append(deleted, key)
		}
	}
	return deleted
}

// stageChangedFiles walks each scope and copies every file whose current
// hash differs from the parent baseline's entry for the same key (new
// files always differ) into stagePath/{scope}/{relpath}, per spec §4.G
// step 6.
func (b *Builder) stageChangedFiles(stagePath string, scopes map[string]string, current, parentBaseline model.Baseline) error {
	for key, entry := range current {
		scopeName, relPath, ok := pathutil.SplitKey(key)
		if !ok {
			continue
		}
		scopeRoot, included := scopes[scopeName]
		if !included {
			continue
		}
		if priorEntry, existed := parentBaseline[key]; existed && priorEntry.Hash == entry.Hash {
			continue
		}

		sourcePath := filepath.Join(scopeRoot, filepath.FromSlash(relPath))
		destPath := filepath.Join(stagePath, scopeName, filepath.FromSlash(relPath))
		if err := copyFile(sourcePath, destPath); err != nil {
			b.logger.Warnf("unable to stage %q: %s", sourcePath, err.Error())
		}
	}
	return nil
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

func scopeNames(scopes map[string]string) []string {
	names := make([]string, 0, len(scopes))
	for name := range scopes {
		names = append(names, name)
	}
	return names
}
