package baseline

import (
	"os"
	"testing"

	"github.com/fonsecajr/blk-engine/pkg/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	b := model.Baseline{
		"Root::a.txt": {Hash: "abc", Size: 1, Modified: 100},
	}
	if err := Save(root, b); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded := Load(root)
	if len(loaded) != 1 || loaded["Root::a.txt"].Hash != "abc" {
		t.Errorf("unexpected loaded baseline: %+v", loaded)
	}
}

func TestLoadMissingReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	loaded := Load(root)
	if len(loaded) != 0 {
		t.Errorf("expected empty baseline, got %+v", loaded)
	}
}

func TestLoadUnparseableReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	if err := Save(root, model.Baseline{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := writeGarbage(root); err != nil {
		t.Fatalf("writeGarbage: %v", err)
	}
	loaded := Load(root)
	if len(loaded) != 0 {
		t.Errorf("expected empty baseline for unparseable file, got %+v", loaded)
	}
}

func writeGarbage(root string) error {
	return os.WriteFile(Path(root), []byte("{not json"), 0o600)
}
