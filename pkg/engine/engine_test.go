package engine

import (
	"os"
	"path/filepath"
	"testing"
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

// TestInitCapturesVanilla grounds the Initialization Contract: a fresh
// managed root gets a default "Root" scope and an initial "Vanilla" set
// covering everything already on disk.
func TestInitCapturesVanilla(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "A")

	e, err := Init(root, nil, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := e.Scopes(); len(got) != 1 || got[0] != "Root" {
		t.Fatalf("expected single Root scope, got %v", got)
	}

	sets, err := e.ListSets()
	if err != nil {
		t.Fatalf("ListSets: %v", err)
	}
	if len(sets) != 1 || sets[0].Name != vanillaSetName || !sets[0].IsRoot() {
		t.Fatalf("expected a single root Vanilla set, got %+v", sets)
	}
}

// TestInitIsIdempotent grounds the contract's reload behavior: calling
// Init again against an already-initialized root does not recapture a
// second Vanilla set.
func TestInitIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "A")

	if _, err := Init(root, nil, nil); err != nil {
		t.Fatalf("Init (first): %v", err)
	}
	if _, err := Init(root, nil, nil); err != nil {
		t.Fatalf("Init (second): %v", err)
	}

	e, err := Open(root, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sets, err := e.ListSets()
	if err != nil {
		t.Fatalf("ListSets: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("expected Init to stay idempotent, got %d sets", len(sets))
	}
}

// TestSaveDiffRestoreLifecycle grounds the full round-trip: init, mutate,
// save a child set, observe the diff clean again, then restore the parent
// and observe the mutation undone.
func TestSaveDiffRestoreLifecycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "A")

	e, err := Init(root, nil, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	sets, err := e.ListSets()
	if err != nil || len(sets) != 1 {
		t.Fatalf("ListSets after init: %v (%v)", sets, err)
	}
	vanillaID := sets[0].ID

	writeFile(t, filepath.Join(root, "a.txt"), "A2")
	summary, err := e.Diff(nil, nil)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if !summary.Dirty || summary.Modified != 1 {
		t.Fatalf("expected a dirty diff with 1 modification, got %+v", summary)
	}

	child, err := e.SaveDelta("edit1", &vanillaID, nil, nil)
	if err != nil {
		t.Fatalf("SaveDelta: %v", err)
	}

	summary, err = e.Diff(nil, nil)
	if err != nil {
		t.Fatalf("Diff after save: %v", err)
	}
	if summary.Dirty {
		t.Fatalf("expected a clean diff immediately after saving, got %+v", summary)
	}

	if err := e.Restore(vanillaID, nil, nil); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	contents, err := os.ReadFile(filepath.Join(root, "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(contents) != "A" {
		t.Fatalf("expected a.txt = A after restoring Vanilla, got %q", string(contents))
	}

	deleted, err := e.DeleteSet(child.ID)
	if err != nil {
		t.Fatalf("DeleteSet: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != child.ID {
		t.Fatalf("expected only %q deleted, got %v", child.ID, deleted)
	}
}
