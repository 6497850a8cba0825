// Package engine exposes the single entry point a caller (CLI or otherwise)
// needs: construct an Engine against a managed root and call its operations.
// Every other package in this module implements one component; Engine's only
// job is wiring them together in the order spec §6 describes.
package engine

import (
	"os"

	"github.com/pkg/errors"

	"github.com/fonsecajr/blk-engine/pkg/baseline"
	"github.com/fonsecajr/blk-engine/pkg/config"
	"github.com/fonsecajr/blk-engine/pkg/delta"
	"github.com/fonsecajr/blk-engine/pkg/diff"
	"github.com/fonsecajr/blk-engine/pkg/lineage"
	"github.com/fonsecajr/blk-engine/pkg/logging"
	"github.com/fonsecajr/blk-engine/pkg/manifest"
	"github.com/fonsecajr/blk-engine/pkg/progress"
	"github.com/fonsecajr/blk-engine/pkg/restore"
	"github.com/fonsecajr/blk-engine/pkg/safety"
	"github.com/fonsecajr/blk-engine/pkg/scan"
)

// vanillaSetName is the name given to the initial root set an
// initialization creates, per spec §6's Initialization Contract.
const vanillaSetName = "Vanilla"

// Engine is the top-level API over a single managed root.
type Engine struct {
	root   string
	cfg    *config.Config
	filter *safety.Filter
	logger *logging.Logger
}

// Open loads the configuration for an already-initialized managed root. It
// returns an error if no configuration exists — callers that aren't sure
// whether root has been initialized should call Init first.
func Open(root string, logger *logging.Logger) (*Engine, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, errors.Wrap(err, "managed root is not initialized")
	}
	return &Engine{root: root, cfg: cfg, filter: safety.Default, logger: logger}, nil
}

// Init performs the Initialization Contract of spec §6 against root: it
// creates the metadata directory, writes a default configuration mapping a
// single "Root" scope to root itself (or to the BLK_ROOT value of root's
// .env file, when one is set), captures an initial root set named
// "Vanilla" over the entire tree, and records the resulting baseline. Init
// is idempotent in the sense that calling it against an already-initialized
// root simply reloads the existing configuration rather than recapturing a
// new Vanilla set.
func Init(root string, logger *logging.Logger, stream *progress.Stream) (*Engine, error) {
	stream.Report(0, "checking for existing configuration")
	if cfg, err := config.Load(root); err == nil {
		stream.Done("already initialized")
		return &Engine{root: root, cfg: cfg, filter: safety.Default, logger: logger}, nil
	}

	overrideRoot, extraExclusions := config.EnvOverrides(root)
	managedRoot := root
	if overrideRoot != "" {
		managedRoot = overrideRoot
	}

	stream.Report(10, "writing default configuration")
	cfg := config.Default(managedRoot)
	if err := cfg.Save(root); err != nil {
		return nil, errors.Wrap(err, "unable to write initial configuration")
	}

	e := &Engine{root: root, cfg: cfg, filter: safety.Default, logger: logger}

	stream.Report(30, "capturing initial set")
	builder := delta.New(root, e.filter, logger)
	if _, err := builder.Save(delta.Request{
		Name:       vanillaSetName,
		Scopes:     cfg.PathMap,
		Exclusions: extraExclusions,
	}, nil); err != nil {
		return nil, errors.Wrap(err, "unable to capture initial set")
	}

	stream.Done("initialized")
	return e, nil
}

// SaveDelta captures the current on-disk state of the configured scopes as
// a new set, optionally as a child of parentID (nil for a new root set).
func (e *Engine) SaveDelta(name string, parentID *string, exclusions []string, stream *progress.Stream) (*manifest.Manifest, error) {
	builder := delta.New(e.root, e.filter, e.logger)
	return builder.Save(delta.Request{
		Name:       name,
		ParentID:   parentID,
		Scopes:     e.cfg.PathMap,
		Exclusions: exclusions,
	}, stream)
}

// Restore runs the nuclear-wipe-and-rebuild protocol to bring every
// configured scope to the state recorded by targetID's lineage.
func (e *Engine) Restore(targetID string, exclusions []string, stream *progress.Stream) error {
	orch := restore.New(e.root, e.cfg.PathMap, exclusions, e.filter, e.logger)
	return orch.Restore(targetID, stream)
}

// ListSets returns every set's manifest, most recently created first.
func (e *Engine) ListSets() ([]*manifest.Manifest, error) {
	return manifest.LoadAll(e.root)
}

// Lineage returns the root-to-target chain of manifests leading to id.
func (e *Engine) Lineage(id string) ([]*manifest.Manifest, error) {
	return lineage.Chain(e.root, id)
}

// DeleteSet removes id and every descendant set beneath it (manifest and
// archive together), returning the ids that were removed.
func (e *Engine) DeleteSet(id string) ([]string, error) {
	return lineage.CascadeDelete(e.root, id)
}

// Diff compares the current on-disk state of the configured scopes against
// the persisted baseline and reports the result on stream, which may be
// nil. It also returns the summary directly for non-streaming callers.
func (e *Engine) Diff(exclusions []string, stream *diff.Stream) (diff.Summary, error) {
	scanner := scan.New(e.filter, e.logger)
	current, err := scanner.Scan(e.cfg.PathMap, exclusions, nil)
	if err != nil {
		return diff.Summary{}, errors.Wrap(err, "unable to scan scopes")
	}
	base := baseline.Load(e.root)
	summary := diff.Compare(current, base)
	stream.Send(summary)
	return summary, nil
}

// Scopes returns the engine's configured scope names.
func (e *Engine) Scopes() []string {
	return e.cfg.Scopes()
}

// Root returns the managed root this engine was opened or initialized
// against.
func (e *Engine) Root() string {
	return e.root
}

// IsInitialized reports whether root already carries a configuration file.
func IsInitialized(root string) bool {
	_, err := os.Stat(config.Path(root))
	return err == nil
}
