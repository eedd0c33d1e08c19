package preview

import (
	"reflect"
	"testing"

	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/state"
)

func TestEchoShow8CaptionAtDefaultScale(t *testing.T) {
	p := state.NewPanel(state.Options{Selected: []string{"echo-show-8-2023"}, Scale: 0.3})
	plan := Build(p)
	if len(plan.Frames) != 1 {
		t.Fatalf("Frames = %d, want 1", len(plan.Frames))
	}
	f := plan.Frames[0]
	if f.Width != 384 || f.Height != 240 {
		t.Fatalf("frame = %dx%d, want 384x240", f.Width, f.Height)
	}
	want := `Echo Show 8 (2023) · 8" · 1280×800 · Preview: 384×240px`
	if got := f.Caption(); got != want {
		t.Fatalf("Caption() = %q, want %q", got, want)
	}
	if got := f.Spec(); got != `8" · 1280×800 · 2023` {
		t.Fatalf("Spec() = %q", got)
	}
}

func TestDimensionsAcrossScaleRange(t *testing.T) {
	p := state.NewPanel(state.Options{})
	p.SelectAll()
	for v := state.MinScale; v <= state.MaxScale+1e-9; v += 0.01 {
		p.SetScale(v)
		for _, f := range Build(p).Frames {
			w, h := Dimensions(f.Device, p.Scale())
			if f.Width != w || f.Height != h {
				t.Fatalf("scale %.2f %s = %dx%d, want %dx%d", v, f.Device.ID, f.Width, f.Height, w, h)
			}
		}
	}

	d := device.Descriptor{Width: 1920, Height: 1080}
	if w, h := Dimensions(d, 0.15); w != 288 || h != 162 {
		t.Fatalf("Dimensions(1920x1080, 0.15) = %dx%d, want 288x162", w, h)
	}
	if w, h := Dimensions(device.Descriptor{Width: 960, Height: 480}, 0.35); w != 336 || h != 168 {
		t.Fatalf("Dimensions(960x480, 0.35) = %dx%d, want 336x168", w, h)
	}
}

func TestBuildEmptySelection(t *testing.T) {
	p := state.NewPanel(state.Options{})
	p.ClearAll()
	if !Build(p).Empty() {
		t.Fatal("Empty() = false with no selection")
	}
}

func TestBuildFollowsCatalogOrder(t *testing.T) {
	p := state.NewPanel(state.Options{Selected: []string{}})
	p.ToggleDevice("echo-show-21")
	p.ToggleDevice("echo-show-5")
	plan := Build(p)
	if plan.Frames[0].Device.ID != "echo-show-5" || plan.Frames[1].Device.ID != "echo-show-21" {
		t.Fatalf("frame order = %s, %s", plan.Frames[0].Device.ID, plan.Frames[1].Device.ID)
	}
}

func TestArrange(t *testing.T) {
	widths := []int{40, 40, 40, 100}
	tests := []struct {
		name string
		view state.ViewMode
		max  int
		want [][]int
	}{
		{"grid wraps", state.ViewGrid, 90, [][]int{{0, 1}, {2}, {3}}},
		{"grid one row", state.ViewGrid, 500, [][]int{{0, 1, 2, 3}}},
		{"stack", state.ViewStack, 500, [][]int{{0}, {1}, {2}, {3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Arrange(tt.view, widths, tt.max, 2)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Arrange = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReferenceRows(t *testing.T) {
	rows := Reference(device.MustBuiltin())
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
	want := ReferenceRow{Device: "Echo Show 15", Screen: `15.6"`, Resolution: "1920×1080", Aspect: "1.78:1", Year: "2024"}
	if rows[4] != want {
		t.Fatalf("rows[4] = %+v, want %+v", rows[4], want)
	}
	if got := ReferenceHeader.Cells(); len(got) != 5 || got[3] != "Aspect Ratio" {
		t.Fatalf("header cells = %v", got)
	}
}
