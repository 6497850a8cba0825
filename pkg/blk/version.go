// Package blk holds identifying information for the engine that doesn't
// belong to any single component.
package blk

const (
	// Version is the engine's version identifier.
	Version = "0.1.0"

	// MetadataDirectoryName is the name of the directory, relative to a
	// managed root, in which the engine keeps its own state (config,
	// baseline, manifests, archives, and transient staging/extraction
	// trees). It doubles as one of the Safety Filter's protected segments.
	MetadataDirectoryName = ".blk"
)
