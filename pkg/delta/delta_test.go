package delta

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/fonsecajr/blk-engine/pkg/baseline"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func archiveNames(t *testing.T, archivePath string) map[string]bool {
	t.Helper()
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reader.Close()
	names := make(map[string]bool)
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			// Directory entries (e.g. "Root/") are stored too; only file
			// entries are collected here.
			continue
		}
		names[f.Name] = true
	}
	return names
}

// TestSaveInitialRoot grounds scenario S1: a fresh root set should capture
// everything under the scope.
func TestSaveInitialRoot(t *testing.T) {
	managedRoot := t.TempDir()
	scopeRoot := t.TempDir()
	writeFile(t, filepath.Join(scopeRoot, "a.txt"), "A")
	writeFile(t, filepath.Join(scopeRoot, "sub", "b.txt"), "B")

	builder := New(managedRoot, nil, nil)
	m, err := builder.Save(Request{
		Name:   "Vanilla",
		Scopes: map[string]string{"Root": scopeRoot},
	}, nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !m.IsRoot() {
		t.Errorf("expected root set to have no parent")
	}
	if len(m.DeletedPaths) != 0 {
		t.Errorf("expected no tombstones for a fresh root set, got %v", m.DeletedPaths)
	}

	names := archiveNames(t, archivePathFor(managedRoot, m.ID))
	if !names["Root/a.txt"] || !names["Root/sub/b.txt"] {
		t.Errorf("expected archive to contain both files, got %v", names)
	}

	loaded := baseline.Load(managedRoot)
	if len(loaded) != 2 {
		t.Errorf("expected baseline with 2 entries, got %+v", loaded)
	}
}

// TestSaveDeltaOnlyIncludesChanges grounds scenario S2: modify a.txt, add
// c.txt, delete sub/b.txt; the delta archive should contain only a.txt and
// c.txt, and the manifest should tombstone sub/b.txt.
func TestSaveDeltaOnlyIncludesChanges(t *testing.T) {
	managedRoot := t.TempDir()
	scopeRoot := t.TempDir()
	writeFile(t, filepath.Join(scopeRoot, "a.txt"), "A")
	writeFile(t, filepath.Join(scopeRoot, "sub", "b.txt"), "B")

	builder := New(managedRoot, nil, nil)
	parent, err := builder.Save(Request{
		Name:   "Vanilla",
		Scopes: map[string]string{"Root": scopeRoot},
	}, nil)
	if err != nil {
		t.Fatalf("Save vanilla: %v", err)
	}

	writeFile(t, filepath.Join(scopeRoot, "a.txt"), "A2")
	writeFile(t, filepath.Join(scopeRoot, "c.txt"), "C")
	if err := os.Remove(filepath.Join(scopeRoot, "sub", "b.txt")); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	child, err := builder.Save(Request{
		Name:     "edit1",
		ParentID: &parent.ID,
		Scopes:   map[string]string{"Root": scopeRoot},
	}, nil)
	if err != nil {
		t.Fatalf("Save edit1: %v", err)
	}

	names := archiveNames(t, archivePathFor(managedRoot, child.ID))
	if len(names) != 2 || !names["Root/a.txt"] || !names["Root/c.txt"] {
		t.Fatalf("expected archive with exactly a.txt and c.txt, got %v", names)
	}
	if len(child.DeletedPaths) != 1 || child.DeletedPaths[0] != "Root::sub/b.txt" {
		t.Fatalf("expected tombstone for Root::sub/b.txt, got %v", child.DeletedPaths)
	}
}

func archivePathFor(root, id string) string {
	return filepath.Join(root, ".blk", "snapshots", id+".zip")
}
