package dropwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIgnored(t *testing.T) {
	tests := map[string]bool{
		"photo.png":            false,
		"clip.MP4":             false,
		".DS_Store":            true,
		"~lock.png":            true,
		"movie.mp4.crdownload": true,
		"shot.png.part":        true,
	}
	for name, want := range tests {
		if got := ignored(name); got != want {
			t.Errorf("ignored(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWatchReportsDroppedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drop")
	w, err := New(dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	drops := w.Watch(ctx)

	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(target, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case d := <-drops:
		if d.Path != target {
			t.Fatalf("drop path = %q, want %q", d.Path, target)
		}
	case <-ctx.Done():
		t.Fatal("no drop reported")
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	w, err := New(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	drops := w.Watch(ctx)
	cancel()

	select {
	case _, ok := <-drops:
		if ok {
			t.Fatal("unexpected drop after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
