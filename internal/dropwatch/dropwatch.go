package dropwatch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before it is reported.
const DefaultDebounce = 300 * time.Millisecond

// Drop is a file that landed in the watched folder.
type Drop struct {
	Path string
	At   time.Time
}

// Watcher reports files copied or moved into a single folder.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	debounce time.Duration
}

// New watches dir, creating it if needed.
func New(dir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create drop folder: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(abs); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", abs, err)
	}
	return &Watcher{fsw: fsw, dir: abs, debounce: debounce}, nil
}

// Dir returns the absolute watched folder.
func (w *Watcher) Dir() string { return w.dir }

// Watch returns a channel of debounced drops. Only the most recently touched
// file is reported when several arrive inside one debounce window, since the
// preview shows one media item at a time. The channel closes when ctx is done
// or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) <-chan Drop {
	out := make(chan Drop)

	go func() {
		defer close(out)

		timer := time.NewTimer(w.debounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		var pending string
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if !relevant(event) {
					continue
				}
				pending = event.Name
				timer.Reset(w.debounce)

			case <-timer.C:
				if pending == "" {
					continue
				}
				if info, err := os.Stat(pending); err != nil || info.IsDir() {
					pending = ""
					continue
				}
				select {
				case out <- Drop{Path: pending, At: time.Now()}:
				case <-ctx.Done():
					return
				}
				pending = ""

			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				log.Printf("dropwatch: %v", err)
			}
		}
	}()

	return out
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	return !ignored(filepath.Base(event.Name))
}

// ignored skips hidden files and in-progress downloads.
func ignored(base string) bool {
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return true
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".part", ".crdownload", ".download", ".tmp", ".swp":
		return true
	}
	return false
}
