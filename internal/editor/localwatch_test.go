package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcher_ReportsDebouncedWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	target := filepath.Join(dir, "payment-processing-capability.md")
	if err := os.WriteFile(target, []byte("# Payment Processing\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewFileWatcher(target)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Several writes in quick succession should coalesce into one change.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("# Payment Processing v2\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case <-w.Changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestFileWatcher_IgnoresSiblingFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	target := filepath.Join(dir, "card-vault-enabler.md")
	sibling := filepath.Join(dir, "other.md")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewFileWatcher(target)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(sibling, []byte("y"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case <-w.Changes:
		t.Fatal("sibling write was reported")
	case <-time.After(500 * time.Millisecond):
	}
}
