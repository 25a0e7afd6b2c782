package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startWatcher(t *testing.T, debounce time.Duration, files ...string) *recorder {
	t.Helper()
	w, err := New(debounce, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Add(files...); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, rec.record)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return rec
}

func waitFor(t *testing.T, rec *recorder, n int) []string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got := rec.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d changes, got %v", n, rec.snapshot())
	return nil
}

func TestDebounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.stl")
	if err := os.WriteFile(path, []byte("solid a"), 0o644); err != nil {
		t.Fatal(err)
	}

	debounce := 150 * time.Millisecond
	rec := startWatcher(t, debounce, path)

	for i := range 5 {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, rec, 1)
	time.Sleep(3 * debounce)
	got := rec.snapshot()

	if len(got) != 1 {
		t.Fatalf("expected one debounced change, got %d", len(got))
	}
	want, _ := filepath.Abs(path)
	if got[0] != want {
		t.Errorf("path = %s, want %s", got[0], want)
	}
}

func TestIgnoresUntrackedFiles(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "tracked.stl")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(tracked, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	debounce := 50 * time.Millisecond
	rec := startWatcher(t, debounce, tracked)

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(4 * debounce)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("untracked write reported: %v", got)
	}

	if err := os.WriteFile(tracked, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, rec, 1)
}

func TestSeparateFilesReportSeparately(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.stl")
	b := filepath.Join(dir, "b.stl")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	rec := startWatcher(t, 50*time.Millisecond, a, b)
	if err := os.WriteFile(a, []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("2"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := waitFor(t, rec, 2)
	if got[0] == got[1] {
		t.Errorf("expected two distinct paths, got %v", got)
	}
}

func TestAddCountsFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Add(filepath.Join(dir, "a"), filepath.Join(dir, "b")); err != nil {
		t.Fatal(err)
	}
	if w.Files() != 2 {
		t.Errorf("Files() = %d, want 2", w.Files())
	}
	if err := w.Add(filepath.Join(dir, "missing", "c")); err == nil {
		t.Error("expected error watching a missing directory")
	}
}
