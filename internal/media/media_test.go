package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        Kind
	}{
		{"video/mp4", KindVideo},
		{" Video/WebM ", KindVideo},
		{"image/png", KindImage},
		{"application/octet-stream", KindImage},
		{"", KindImage},
	}
	for _, tt := range tests {
		if got := KindFor(tt.contentType); got != tt.want {
			t.Fatalf("KindFor(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}

func TestSupported(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "video/quicktime"} {
		if !Supported(ct) {
			t.Fatalf("Supported(%q) = false, want true", ct)
		}
	}
	for _, ct := range []string{"text/plain", "application/pdf", ""} {
		if Supported(ct) {
			t.Fatalf("Supported(%q) = true, want false", ct)
		}
	}
}

func TestDeclaredType(t *testing.T) {
	if got := DeclaredType("clip.MP4", nil); got != "video/mp4" {
		t.Fatalf("DeclaredType(clip.MP4) = %q, want video/mp4", got)
	}
	if got := DeclaredType("photo.png", nil); got != "image/png" {
		t.Fatalf("DeclaredType(photo.png) = %q, want image/png", got)
	}
	pngHead := []byte("\x89PNG\r\n\x1a\n0000")
	if got := DeclaredType("noext", pngHead); got != "image/png" {
		t.Fatalf("DeclaredType sniff = %q, want image/png", got)
	}
	if got := DeclaredType("noext", nil); got != "" {
		t.Fatalf("DeclaredType without head = %q, want empty", got)
	}
}

func TestOpenFileDeclaresType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "still.png")
	if err := os.WriteFile(path, encodePNG(t, 4, 2), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if f.Name != "still.png" || f.ContentType != "image/png" || f.Size == 0 {
		t.Fatalf("OpenFile = %#v, want still.png image/png", f)
	}

	if _, err := OpenFile(dir); err == nil {
		t.Fatal("OpenFile(dir) returned nil error, want error")
	}
	if _, err := OpenFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("OpenFile(missing) returned nil error, want error")
	}
}

func TestAllocatorPairsReleases(t *testing.T) {
	alloc := NewAllocator()
	var released []Locator
	alloc.OnRelease = func(loc Locator) { released = append(released, loc) }

	lease := alloc.Allocate(NewFile("a.png", "image/png", nil))
	loc := lease.Locator()
	if !strings.HasPrefix(string(loc), "blob:") {
		t.Fatalf("Locator = %q, want blob: prefix", loc)
	}
	if _, ok := alloc.Resolve(loc); !ok {
		t.Fatal("Resolve(live) = false, want true")
	}

	if !lease.Release() {
		t.Fatal("first Release() = false, want true")
	}
	if lease.Release() {
		t.Fatal("second Release() = true, want false")
	}
	if _, ok := alloc.Resolve(loc); ok {
		t.Fatal("Resolve(released) = true, want false")
	}

	stats := alloc.Stats()
	if stats.Created != 1 || stats.Released != 1 || stats.Outstanding != 0 {
		t.Fatalf("Stats() = %+v, want 1 created 1 released 0 outstanding", stats)
	}
	if len(released) != 1 || released[0] != loc {
		t.Fatalf("OnRelease calls = %v, want [%s]", released, loc)
	}
}

func TestDecodeImage(t *testing.T) {
	f := NewFile("x.png", "image/png", encodePNG(t, 6, 3))
	img, err := DecodeImage(f)
	if err != nil {
		t.Fatalf("DecodeImage returned error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Fatalf("bounds = %v, want 6x3", b)
	}

	if _, err := DecodeImage(NewFile("bad.png", "image/png", []byte("nope"))); err == nil {
		t.Fatal("DecodeImage(garbage) returned nil error, want error")
	}
}

func TestStillsDropReleasedLocators(t *testing.T) {
	alloc := NewAllocator()
	stills := NewStills(alloc)
	alloc.OnRelease = stills.Forget

	lease := alloc.Allocate(NewFile("a.png", "image/png", nil))
	loc := lease.Locator()

	if _, ok := stills.Lookup(loc); ok {
		t.Fatal("Lookup before Store reported ok, want loading")
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if !stills.Store(loc, img, nil) {
		t.Fatal("Store(live) = false, want true")
	}
	st, ok := stills.Lookup(loc)
	if !ok || st.Image != img || st.Err != nil {
		t.Fatalf("Lookup = %+v, %v; want stored image", st, ok)
	}

	lease.Release()
	st, ok = stills.Lookup(loc)
	if !ok || !errors.Is(st.Err, ErrStaleLocator) {
		t.Fatalf("Lookup after release = %+v, want ErrStaleLocator", st)
	}
	if stills.Store(loc, img, nil) {
		t.Fatal("Store(released) = true, want false")
	}
}

func TestParseSeconds(t *testing.T) {
	got, err := parseSeconds("12.5\n")
	if err != nil {
		t.Fatalf("parseSeconds returned error: %v", err)
	}
	if got != 12500*time.Millisecond {
		t.Fatalf("parseSeconds = %v, want 12.5s", got)
	}
	if _, err := parseSeconds("N/A"); err == nil {
		t.Fatal("parseSeconds(N/A) returned nil error, want error")
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}
