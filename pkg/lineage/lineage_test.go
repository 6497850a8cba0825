package lineage

import (
	"testing"

	"github.com/fonsecajr/blk-engine/pkg/manifest"
)

func ptr(s string) *string { return &s }

func TestChainOrdersRootFirst(t *testing.T) {
	root := t.TempDir()
	saveManifest(t, root, "vanilla", nil)
	saveManifest(t, root, "edit1", ptr("vanilla"))
	saveManifest(t, root, "edit2", ptr("edit1"))

	chain, err := Chain(root, "edit2")
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(chain) != 3 || chain[0].ID != "vanilla" || chain[1].ID != "edit1" || chain[2].ID != "edit2" {
		t.Fatalf("unexpected chain: %v", idsOf(chain))
	}
}

func TestChainStopsAtBrokenParent(t *testing.T) {
	root := t.TempDir()
	saveManifest(t, root, "orphan", ptr("missing-parent"))

	chain, err := Chain(root, "orphan")
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(chain) != 1 || chain[0].ID != "orphan" {
		t.Fatalf("unexpected chain: %v", idsOf(chain))
	}
}

func TestChainTerminatesOnCycle(t *testing.T) {
	root := t.TempDir()
	saveManifest(t, root, "a", ptr("b"))
	saveManifest(t, root, "b", ptr("a"))

	chain, err := Chain(root, "a")
	if err != nil {
		t.Fatalf("Chain: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("expected cycle walk to terminate at length 2, got %v", idsOf(chain))
	}
}

func TestChildren(t *testing.T) {
	root := t.TempDir()
	saveManifest(t, root, "vanilla", nil)
	saveManifest(t, root, "edit1", ptr("vanilla"))
	saveManifest(t, root, "edit2", ptr("vanilla"))

	children, err := Children(root, "vanilla")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %v", idsOf(children))
	}
}

func TestCascadeDelete(t *testing.T) {
	root := t.TempDir()
	saveManifest(t, root, "vanilla", nil)
	saveManifest(t, root, "edit1", ptr("vanilla"))
	saveManifest(t, root, "edit2", ptr("edit1"))

	deleted, err := CascadeDelete(root, "edit1")
	if err != nil {
		t.Fatalf("CascadeDelete: %v", err)
	}
	if len(deleted) != 2 {
		t.Fatalf("expected edit1 and edit2 deleted, got %v", deleted)
	}
	if _, err := manifest.Load(root, "vanilla"); err != nil {
		t.Errorf("expected vanilla to survive cascade delete")
	}
	if _, err := manifest.Load(root, "edit1"); err == nil {
		t.Errorf("expected edit1 to be deleted")
	}
	if _, err := manifest.Load(root, "edit2"); err == nil {
		t.Errorf("expected edit2 to be deleted")
	}
}

func saveManifest(t *testing.T, root, id string, parent *string) {
	t.Helper()
	m := &manifest.Manifest{ID: id, Name: id, ParentID: parent}
	if err := manifest.Save(root, m); err != nil {
		t.Fatalf("Save(%q): %v", id, err)
	}
}

func idsOf(manifests []*manifest.Manifest) []string {
	ids := make([]string, len(manifests))
	for i, m := range manifests {
		ids[i] = m.ID
	}
	return ids
}
