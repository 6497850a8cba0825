package diff

import (
	"testing"

	"github.com/fonsecajr/blk-engine/pkg/model"
)

func TestCompare(t *testing.T) {
	base := model.Baseline{
		"Root::a.txt": {Hash: "h1"},
		"Root::b.txt": {Hash: "h2"},
		"Root::c.txt": {Hash: "h3"},
	}
	current := model.Baseline{
		"Root::a.txt": {Hash: "h1"},       // unchanged
		"Root::b.txt": {Hash: "h2-new"},   // modified
		"Root::d.txt": {Hash: "h4"},       // new
		// c.txt deleted
	}
	summary := Compare(current, base)
	if summary.New != 1 || summary.Modified != 1 || summary.Deleted != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !summary.Dirty {
		t.Errorf("expected dirty=true")
	}
}

func TestCompareClean(t *testing.T) {
	base := model.Baseline{"Root::a.txt": {Hash: "h1"}}
	summary := Compare(base, base)
	if summary.Dirty {
		t.Errorf("expected dirty=false for identical scan/baseline")
	}
}
