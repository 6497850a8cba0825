// Package model holds the small data types shared across the storage
// components: the scanner, the baseline store, the diff engine, and the
// delta builder all operate on the same FileEntry/Baseline shapes.
package model

// FileEntry records the observed state of a single tracked file.
type FileEntry struct {
	// Hash is the 64-character lowercase hex SHA-256 digest of the file's
	// contents. It is empty only if the file could not be opened.
	Hash string `json:"hash"`
	// Size is the file size in bytes, as reported by stat.
	Size uint64 `json:"size"`
	// Modified is the file's modification time, in seconds since the Unix
	// epoch, as reported by stat.
	Modified uint64 `json:"modified"`
}

// Baseline is the authoritative record of what's on disk after the last
// committing operation: a mapping from PathKey ("scope::relpath") to
// FileEntry.
type Baseline map[string]FileEntry
