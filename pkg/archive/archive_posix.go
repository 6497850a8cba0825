//go:build !windows

package archive

import (
	"os"

	"github.com/fonsecajr/blk-engine/pkg/logging"
)

// applyPermissions reapplies the stored permission mode to path on POSIX
// systems, per spec §4.D.
func applyPermissions(path string, mode os.FileMode, logger *logging.Logger) {
	if err := os.Chmod(path, mode); err != nil {
		logger.Warnf("unable to apply permissions to %q: %s", path, err.Error())
	}
}
