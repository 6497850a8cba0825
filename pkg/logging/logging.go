// Package logging provides the engine's sublogger hierarchy. It mirrors the
// shape used throughout the storage and restore components: every
// constructor accepts a *Logger (which may be nil) instead of writing
// straight to the standard logger, so tests can run silent and the CLI can
// wire in whatever verbosity the user asked for.
package logging

import (
	"log"
	"os"
)

func init() {
	// Route the standard logger at standard error so that stdout stays
	// free for command output the CLI actually wants to capture/pipe.
	log.SetOutput(os.Stderr)
}
