// Package baseline implements the Baseline Store component (spec §4.C):
// it persists the most recently observed scan as a single JSON document.
package baseline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/fonsecajr/blk-engine/pkg/blk"
	"github.com/fonsecajr/blk-engine/pkg/model"
)

// Path returns the path to the baseline file under the given managed root.
func Path(root string) string {
	return filepath.Join(root, blk.MetadataDirectoryName, "baseline.json")
}

// Load returns the persisted baseline for root. A missing or unparseable
// file is never an error — it yields an empty baseline, the same
// resilience the original engine applies to every piece of its metadata.
func Load(root string) model.Baseline {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		return make(model.Baseline)
	}
	var result model.Baseline
	if err := json.Unmarshal(data, &result); err != nil {
		return make(model.Baseline)
	}
	if result == nil {
		result = make(model.Baseline)
	}
	return result
}

// Save overwrites the baseline file under root with b. Writes are
// whole-file overwrites; atomicity is best-effort at the filesystem level,
// matching spec §4.C.
func Save(root string, b model.Baseline) error {
	dir := filepath.Join(root, blk.MetadataDirectoryName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "unable to create metadata directory")
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to marshal baseline")
	}
	if err := os.WriteFile(Path(root), data, 0o600); err != nil {
		return errors.Wrap(err, "unable to write baseline file")
	}
	return nil
}
