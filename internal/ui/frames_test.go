package ui

import (
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/devpreview/internal/media"
	"github.com/five82/devpreview/internal/preview"
)

func TestCellSize(t *testing.T) {
	cases := []struct {
		w, h       int
		cols, rows int
	}{
		{288, 144, 36, 9},
		{576, 324, 72, 20},
		{3, 3, 1, 1},
		{0, 0, 1, 1},
	}
	for _, tc := range cases {
		cols, rows := cellSize(tc.w, tc.h, 8, 16)
		if cols != tc.cols || rows != tc.rows {
			t.Fatalf("cellSize(%d, %d) = %d×%d, want %d×%d", tc.w, tc.h, cols, rows, tc.cols, tc.rows)
		}
	}
}

func TestHalfBlockDimensions(t *testing.T) {
	lines := halfBlock(solid(40, 10, color.White), 12, 3)
	if len(lines) != 3 {
		t.Fatalf("halfBlock rows = %d, want 3", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 12 {
			t.Fatalf("row %d width = %d, want 12", i, w)
		}
	}
}

func TestCellCacheResetsOnNewLocator(t *testing.T) {
	c := newCellCache()
	img := solid(4, 4, color.White)
	c.screen(media.Locator("blob:a"), img, 4, 2)
	c.screen(media.Locator("blob:a"), img, 8, 2)
	if len(c.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(c.entries))
	}
	c.screen(media.Locator("blob:b"), img, 4, 2)
	if len(c.entries) != 1 {
		t.Fatalf("entries after new locator = %d, want 1", len(c.entries))
	}
}

func TestRenderFrameCaption(t *testing.T) {
	m := newTestModel(t, Options{Selected: []string{"echo-show-5"}})
	plan := preview.Build(m.panel)
	if len(plan.Frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(plan.Frames))
	}
	out := m.renderFrame(plan.Frames[0])
	for _, want := range []string{"Echo Show 5", "960×480", preview.Placeholder} {
		if !strings.Contains(out, want) {
			t.Fatalf("frame missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFrameShowsBrokenMedia(t *testing.T) {
	m := newTestModel(t, Options{Selected: []string{"echo-show-15"}})
	m = update(t, m, fileMsg{file: pngFile("bad.png"), via: intakeBrowse})
	ref := m.panel.Media()
	m = update(t, m, stillMsg{loc: ref.Locator, name: ref.File.Name, err: media.ErrNoFFmpeg})

	out := m.renderFrame(preview.Build(m.panel).Frames[0])
	if !strings.Contains(out, "Media failed to load") {
		t.Fatalf("broken media not shown:\n%s", out)
	}
}

func TestRenderPreviewIncludesReference(t *testing.T) {
	m := newTestModel(t, Options{})
	out := m.renderPreview()
	if !strings.Contains(out, "Device Reference") {
		t.Fatal("reference table missing")
	}
	for _, d := range m.panel.Catalog().All() {
		if !strings.Contains(out, d.Name) {
			t.Fatalf("reference missing %q", d.Name)
		}
	}
}
