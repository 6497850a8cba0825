//go:build windows

package archive

import (
	"os"

	"github.com/fonsecajr/blk-engine/pkg/logging"
)

// applyPermissions is a no-op on Windows — spec §4.D's permission model is
// POSIX-only.
func applyPermissions(path string, mode os.FileMode, logger *logging.Logger) {
	_ = path
	_ = mode
	_ = logger
}
