package app

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "banner.png")
	txt := filepath.Join(dir, "notes.txt")
	for _, p := range []string{img, txt} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := checkFile(img)
	if err != nil {
		t.Fatalf("checkFile(png) error: %v", err)
	}
	if got != img {
		t.Fatalf("checkFile(png) = %q, want %q", got, img)
	}

	if _, err := checkFile(txt); !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("checkFile(txt) error = %v, want ErrUnsupportedMedia", err)
	}
	if _, err := checkFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("checkFile(missing) succeeded")
	}
}

func TestSetupLogWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "devpreview.log")

	closeLog, err := setupLog(path)
	if err != nil {
		t.Fatalf("setupLog: %v", err)
	}
	log.Printf("intake: loaded test.png (image/png)")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.HasPrefix(line, "devpreview ") || !strings.Contains(line, "intake: loaded test.png") {
		t.Fatalf("log line = %q", line)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("scale = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	err := Run(t.Context(), Options{ConfigPath: path})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Run error = %v, want load config failure", err)
	}
}
