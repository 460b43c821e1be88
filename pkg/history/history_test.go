package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h, err := NewAtPath(path)
	if err != nil {
		t.Fatalf("NewAtPath failed: %v", err)
	}

	h.Record("100", "Older export", "/tmp/a.md")
	h.Record("200", "Newer export", "/tmp/b.md")
	// Make ordering deterministic.
	e := h.Entries["100"]
	e.ExportedAt = time.Now().Add(-time.Hour)
	h.Entries["100"] = e

	exports := h.List()
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(exports))
	}
	if exports[0].GID != "200" || exports[1].GID != "100" {
		t.Errorf("exports not sorted newest first: %+v", exports)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h, err := NewAtPath(path)
	if err != nil {
		t.Fatalf("NewAtPath failed: %v", err)
	}

	h.Record("100", "Roadmap", "/tmp/roadmap.md")
	if err := h.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewAtPath(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	entry, ok := reloaded.Get("100")
	if !ok {
		t.Fatal("expected entry 100 after reload")
	}
	if entry.Title != "Roadmap" || entry.Path != "/tmp/roadmap.md" {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestSavePrunesStaleEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h, err := NewAtPath(path)
	if err != nil {
		t.Fatalf("NewAtPath failed: %v", err)
	}

	h.Record("100", "Ancient", "/tmp/old.md")
	e := h.Entries["100"]
	e.ExportedAt = time.Now().Add(-retention - time.Hour)
	h.Entries["100"] = e
	h.Record("200", "Fresh", "/tmp/new.md")

	if err := h.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, ok := h.Get("100"); ok {
		t.Error("stale entry should have been pruned")
	}
	if _, ok := h.Get("200"); !ok {
		t.Error("fresh entry should survive pruning")
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	h, err := NewAtPath(path)
	if err != nil {
		t.Fatalf("NewAtPath failed: %v", err)
	}

	h.Record("100", "Doc", "/tmp/doc.md")
	h.Remove("100")
	if _, ok := h.Get("100"); ok {
		t.Error("entry should be gone after Remove")
	}
}
