package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func startWatcher(t *testing.T, path string, debounce time.Duration, onChange func()) context.CancelFunc {
	t.Helper()

	w, err := New(path, debounce, onChange)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()

	// Give the watcher goroutine time to start.
	time.Sleep(50 * time.Millisecond)
	return cancel
}

func TestDetectsFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.md")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 1)
	cancel := startWatcher(t, path, 50*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	if err := os.WriteFile(path, []byte("modified"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Error("no change callback after file write")
	}
}

func TestIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.md")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	var count atomic.Int32
	cancel := startWatcher(t, path, 50*time.Millisecond, func() {
		count.Add(1)
	})
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, "other.md"), []byte("noise"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if n := count.Load(); n != 0 {
		t.Errorf("sibling write triggered %d callbacks, want 0", n)
	}
}

func TestCoalescesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.md")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	var count atomic.Int32
	cancel := startWatcher(t, path, 200*time.Millisecond, func() {
		count.Add(1)
	})
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("edit"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(600 * time.Millisecond)
	if n := count.Load(); n != 1 {
		t.Errorf("burst of writes triggered %d callbacks, want 1", n)
	}
}

func TestStopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.md")
	if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, 50*time.Millisecond, func() {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watcher did not stop after cancel")
	}
}

func TestMissingDirectoryFails(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "no", "such", "prompt.md"), 0, nil); err == nil {
		t.Error("New should fail when the parent directory does not exist")
	}
}
