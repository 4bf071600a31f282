package bridge

import (
	"testing"

	"github.com/dshills/jsonbridge/internal/editor"
)

func TestBuildSnapshot(t *testing.T) {
	buf := editor.NewBuffer("inmemory://model/1", "json", "{}")

	snap := BuildSnapshot(buf)
	if string(snap.URI) != "inmemory://model/1" {
		t.Errorf("URI = %q", snap.URI)
	}
	if snap.LanguageID != "json" {
		t.Errorf("LanguageID = %q", snap.LanguageID)
	}
	if snap.Version != 1 {
		t.Errorf("Version = %d, want 1", snap.Version)
	}
	if snap.Text != "{}" {
		t.Errorf("Text = %q", snap.Text)
	}
}

func TestBuildSnapshotReflectsLatestState(t *testing.T) {
	buf := editor.NewBuffer("inmemory://model/1", "json", "{}")
	before := BuildSnapshot(buf)

	buf.SetText(`{"a": 1}`)
	after := BuildSnapshot(buf)

	if before.Text != "{}" {
		t.Errorf("earlier snapshot mutated: %q", before.Text)
	}
	if after.Text != `{"a": 1}` {
		t.Errorf("new snapshot is stale: %q", after.Text)
	}
	if after.Version <= before.Version {
		t.Errorf("version did not advance: %d -> %d", before.Version, after.Version)
	}
}
