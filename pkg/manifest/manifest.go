// Package manifest implements the Set Manifest Store component (spec
// §4.F): CRUD over per-set JSON manifests recording identity, parent,
// scopes, exclusions, tombstones, and creation time.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eknkc/basex"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/fonsecajr/blk-engine/pkg/blk"
)

// base62Alphabet is the alphabet used to render a uuid
// collision-disambiguation suffix — see DeriveUniqueID.
const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// idEncoder is the Base62 encoder used by DeriveUniqueID. It is safe for
// concurrent use.
var idEncoder *basex.Encoding

func init() {
	encoding, err := basex.NewEncoding(base62Alphabet)
	if err != nil {
		panic("unable to initialize base62 encoder")
	}
	idEncoder = encoding
}

// Manifest is a single set's persisted identity and lineage record.
type Manifest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ParentID    *string  `json:"parent_id"`
	CreatedAt   int64    `json:"created_at"`
	Scopes      []string `json:"scopes"`
	Exclusions  []string `json:"exclusions"`
	DeletedPaths []string `json:"deleted_paths"`
}

// IsRoot reports whether m has no parent.
func (m *Manifest) IsRoot() bool {
	return m.ParentID == nil
}

// setsDir returns the directory containing set manifests under root.
func setsDir(root string) string {
	return filepath.Join(root, blk.MetadataDirectoryName, "sets")
}

// snapshotsDir returns the directory containing set archives under root.
func snapshotsDir(root string) string {
	return filepath.Join(root, blk.MetadataDirectoryName, "snapshots")
}

// ArchivePath returns the path to id's archive under root.
func ArchivePath(root, id string) string {
	return filepath.Join(snapshotsDir(root), id+".zip")
}

// path returns the path to id's manifest file under root.
func path(root, id string) string {
	return filepath.Join(setsDir(root), id+".json")
}

// DeriveID derives a set id from a display name by lowercasing it,
// replacing spaces with underscores, and stripping path separators (spec
// §3/§6). This derivation is intentionally lossy — see DeriveUniqueID for
// the collision-avoidance variant used by the Delta Builder.
func DeriveID(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, "/", "")
	id = strings.ReplaceAll(id, "\\", "")
	return id
}

// DeriveUniqueID derives an id for name and, if that id already has a
// manifest on disk under root, appends a short base62-encoded random
// suffix to disambiguate — spec §9 flags silent-collision-overwrite as an
// open question; this engine instead suffixes rather than overwrites.
func DeriveUniqueID(root, name string) (string, error) {
	base := DeriveID(name)
	if _, err := os.Stat(path(root, base)); os.IsNotExist(err) {
		return base, nil
	}
	suffix, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "unable to generate disambiguation suffix")
	}
	encoded := idEncoder.Encode(suffix[:])
	if len(encoded) > 8 {
		encoded = encoded[:8]
	}
	return base + "_" + encoded, nil
}

// Save writes m's manifest file under root, creating the sets directory
// if necessary.
func Save(root string, m *Manifest) error {
	dir := setsDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "unable to create sets directory")
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to marshal manifest")
	}
	if err := os.WriteFile(path(root, m.ID), data, 0o600); err != nil {
		return errors.Wrap(err, "unable to write manifest")
	}
	return nil
}

// Load reads the manifest for id under root.
func Load(root, id string) (*Manifest, error) {
	data, err := os.ReadFile(path(root, id))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "unable to parse manifest")
	}
	return &m, nil
}

// LoadAll enumerates every manifest under root, skipping any file that
// fails to parse (treated as a malformed-metadata error per spec §7), and
// returns them sorted by CreatedAt descending for display.
func LoadAll(root string) ([]*Manifest, error) {
	dir := setsDir(root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "unable to list sets directory")
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		m, err := Load(root, id)
		if err != nil {
			continue
		}
		manifests = append(manifests, m)
	}
	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].CreatedAt > manifests[j].CreatedAt
	})
	return manifests, nil
}

// Delete removes both the manifest and archive for id. Either being
// already absent is tolerated (and not reported as an error) per the
// lifecycle note in spec §3.
func Delete(root, id string) error {
	if err := os.Remove(path(root, id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "unable to remove manifest %q", id)
	}
	if err := os.Remove(ArchivePath(root, id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "unable to remove archive %q", id)
	}
	return nil
}
