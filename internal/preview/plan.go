package preview

import (
	"fmt"
	"math"

	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/media"
	"github.com/five82/devpreview/internal/state"
)

// EmptyMessage is shown instead of the frames when nothing is selected.
const EmptyMessage = "Select at least one device to preview"

// Placeholder is shown inside a frame when no media is loaded.
const Placeholder = "No media"

// Dimensions returns the preview size of d at scale.
func Dimensions(d device.Descriptor, scale float64) (width, height int) {
	return int(math.Round(float64(d.Width) * scale)), int(math.Round(float64(d.Height) * scale))
}

// Frame is one device mockup in the preview.
type Frame struct {
	Device device.Descriptor
	Width  int // preview pixels
	Height int
}

// Spec returns the device metadata line, e.g. `8" · 1280×800 · 2023`.
func (f Frame) Spec() string {
	return fmt.Sprintf("%s · %s · %d", f.Device.ScreenSize, f.Device.Resolution(), f.Device.Year)
}

// PreviewSize returns "Preview: 384×240px".
func (f Frame) PreviewSize() string {
	return fmt.Sprintf("Preview: %d×%dpx", f.Width, f.Height)
}

// Caption returns the full one-line caption.
func (f Frame) Caption() string {
	return fmt.Sprintf("%s · %s · %s · %s",
		f.Device.Title(), f.Device.ScreenSize, f.Device.Resolution(), f.PreviewSize())
}

// Plan is everything a renderer needs to draw the preview.
type Plan struct {
	View   state.ViewMode
	Scale  float64
	Media  media.Reference
	Frames []Frame
}

// Build computes the plan for the panel's current state.
func Build(p *state.Panel) Plan {
	plan := Plan{
		View:  p.View(),
		Scale: p.Scale(),
		Media: p.Media(),
	}
	for _, d := range p.Selected() {
		w, h := Dimensions(d, plan.Scale)
		plan.Frames = append(plan.Frames, Frame{Device: d, Width: w, Height: h})
	}
	return plan
}

// Empty reports whether no device is selected.
func (p Plan) Empty() bool {
	return len(p.Frames) == 0
}

// Arrange splits item widths into rows. Stack puts one item per row; grid fills
// each row up to maxWidth (items are never split, so an item wider than
// maxWidth gets a row of its own).
func Arrange(view state.ViewMode, widths []int, maxWidth, gap int) [][]int {
	var rows [][]int
	if view == state.ViewStack || maxWidth <= 0 {
		for i := range widths {
			rows = append(rows, []int{i})
		}
		return rows
	}

	var row []int
	used := 0
	for i, w := range widths {
		need := w
		if len(row) > 0 {
			need += gap
		}
		if len(row) > 0 && used+need > maxWidth {
			rows = append(rows, row)
			row, used, need = nil, 0, w
		}
		row = append(row, i)
		used += need
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// ReferenceRow is one line of the device reference table.
type ReferenceRow struct {
	Device     string
	Screen     string
	Resolution string
	Aspect     string
	Year       string
}

// ReferenceHeader names the reference table columns.
var ReferenceHeader = ReferenceRow{
	Device:     "Device",
	Screen:     "Screen",
	Resolution: "Resolution",
	Aspect:     "Aspect Ratio",
	Year:       "Year",
}

// Reference returns one row per catalog device.
func Reference(c *device.Catalog) []ReferenceRow {
	all := c.All()
	rows := make([]ReferenceRow, 0, len(all))
	for _, d := range all {
		rows = append(rows, ReferenceRow{
			Device:     d.Name,
			Screen:     d.ScreenSize,
			Resolution: d.Resolution(),
			Aspect:     d.AspectLabel(),
			Year:       fmt.Sprintf("%d", d.Year),
		})
	}
	return rows
}

// Cells returns the row as a slice in column order.
func (r ReferenceRow) Cells() []string {
	return []string{r.Device, r.Screen, r.Resolution, r.Aspect, r.Year}
}
