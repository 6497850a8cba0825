// Package must provides small helpers for best-effort cleanup calls whose
// errors are worth logging but never worth propagating — the same role the
// teacher's must package plays for its daemon/session plumbing, trimmed down
// to the handful of calls the storage and restore paths actually make.
package must

import (
	"io"
	"os"

	"github.com/fonsecajr/blk-engine/pkg/logging"
)

// Close closes c, logging (rather than returning) any error.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %s", err.Error())
	}
}

// OSRemove removes the file at path, logging (rather than returning) any
// error. Used for best-effort cleanup of temporary files on a failure path
// that has already decided to report a different, primary error.
func OSRemove(path string, logger *logging.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("unable to remove '%s': %s", path, err.Error())
	}
}

// OSRemoveAll removes the tree rooted at path, logging (rather than
// returning) any error.
func OSRemoveAll(path string, logger *logging.Logger) {
	if err := os.RemoveAll(path); err != nil {
		logger.Warnf("unable to remove '%s': %s", path, err.Error())
	}
}
