package state

import (
	"math"
	"strconv"
	"strings"

	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/media"
	"github.com/five82/devpreview/internal/playback"
)

// ViewMode arranges device frames.
type ViewMode string

const (
	ViewGrid  ViewMode = "grid"
	ViewStack ViewMode = "stack"
)

// ParseViewMode maps a config value to a view mode, defaulting to grid.
func ParseViewMode(raw string) ViewMode {
	if ViewMode(strings.ToLower(strings.TrimSpace(raw))) == ViewStack {
		return ViewStack
	}
	return ViewGrid
}

// Scale bounds.
const (
	MinScale     = 0.15
	MaxScale     = 1.0
	ScaleStep    = 0.05
	DefaultScale = 0.3
)

// ClampScale clamps v to [MinScale, MaxScale]. Non-finite values fall back to
// DefaultScale.
func ClampScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultScale
	}
	return math.Max(MinScale, math.Min(MaxScale, v))
}

// SnapScale clamps v and rounds it to the nearest ScaleStep.
func SnapScale(v float64) float64 {
	v = ClampScale(v)
	steps := math.Round(v / ScaleStep)
	return ClampScale(math.Round(steps*ScaleStep*100) / 100)
}

// Options seed a panel.
type Options struct {
	Catalog   *device.Catalog
	Allocator *media.Allocator
	Players   playback.Factory // nil disables video instances
	Selected  []string         // nil uses device.DefaultSelection
	Scale     float64          // zero uses DefaultScale
	View      ViewMode
}

// Panel owns every piece of preview state. It is not safe for concurrent use;
// the UI event loop is its only caller.
type Panel struct {
	catalog  *device.Catalog
	alloc    *media.Allocator
	players  playback.Factory
	playback *playback.Controller

	selected     map[string]bool
	scale        float64
	view         ViewMode
	dropdownOpen bool

	media media.Reference
	lease *media.Lease
}

// NewPanel builds a panel. Selected ids that are not in the catalog are dropped.
func NewPanel(opts Options) *Panel {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = device.MustBuiltin()
	}
	alloc := opts.Allocator
	if alloc == nil {
		alloc = media.NewAllocator()
	}
	scale := DefaultScale
	if opts.Scale != 0 {
		scale = ClampScale(opts.Scale)
	}
	view := opts.View
	if view != ViewStack {
		view = ViewGrid
	}
	ids := opts.Selected
	if ids == nil {
		ids = device.DefaultSelection
	}

	p := &Panel{
		catalog:  catalog,
		alloc:    alloc,
		players:  opts.Players,
		playback: playback.NewController(true),
		selected: make(map[string]bool, len(ids)),
		scale:    scale,
		view:     view,
	}
	for _, id := range ids {
		if catalog.Has(id) {
			p.selected[id] = true
		}
	}
	return p
}

// Catalog returns the device catalog.
func (p *Panel) Catalog() *device.Catalog { return p.catalog }

// Allocator returns the locator allocator.
func (p *Panel) Allocator() *media.Allocator { return p.alloc }

// Playback returns the playback controller.
func (p *Panel) Playback() *playback.Controller { return p.playback }

// Media returns the current media reference, zero when none is loaded.
func (p *Panel) Media() media.Reference { return p.media }

// HasMedia reports whether media is loaded.
func (p *Panel) HasMedia() bool { return !p.media.IsZero() }

// Playing returns the shared play-intent flag.
func (p *Panel) Playing() bool { return p.playback.Playing() }

// LoadMedia replaces the current media with f. This is the browse path; the
// picker has already filtered by type.
func (p *Panel) LoadMedia(f media.File) {
	p.releaseMedia()
	p.lease = p.alloc.Allocate(f)
	p.media = media.Reference{
		File:    f,
		Kind:    media.KindFor(f.ContentType),
		Locator: p.lease.Locator(),
	}
	p.playback.SetPlaying(true)
	p.Sync()
}

// DropMedia loads f only when its declared type is image/* or video/*. It
// reports whether the file was accepted.
func (p *Panel) DropMedia(f media.File) bool {
	if !media.Supported(f.ContentType) {
		return false
	}
	p.LoadMedia(f)
	return true
}

// ClearMedia releases the current media.
func (p *Panel) ClearMedia() {
	p.releaseMedia()
	p.Sync()
}

// Close releases any outstanding locator. The panel stays usable.
func (p *Panel) Close() {
	p.releaseMedia()
}

func (p *Panel) releaseMedia() {
	p.playback.Reset()
	p.lease.Release()
	p.lease = nil
	p.media = media.Reference{}
}

// ToggleDevice flips membership of id. Unknown ids are ignored.
func (p *Panel) ToggleDevice(id string) {
	if !p.catalog.Has(id) {
		return
	}
	if p.selected[id] {
		delete(p.selected, id)
	} else {
		p.selected[id] = true
	}
	p.Sync()
}

// SelectAll selects every catalog device.
func (p *Panel) SelectAll() {
	for _, id := range p.catalog.IDs() {
		p.selected[id] = true
	}
	p.Sync()
}

// ClearAll empties the selection.
func (p *Panel) ClearAll() {
	clear(p.selected)
	p.Sync()
}

// IsSelected reports whether id is selected.
func (p *Panel) IsSelected(id string) bool { return p.selected[id] }

// SelectionCount returns the number of selected devices.
func (p *Panel) SelectionCount() int { return len(p.selected) }

// SelectedIDs returns selected ids in catalog order.
func (p *Panel) SelectedIDs() []string {
	ids := make([]string, 0, len(p.selected))
	for _, id := range p.catalog.IDs() {
		if p.selected[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Selected returns selected descriptors in catalog order.
func (p *Panel) Selected() []device.Descriptor {
	out := make([]device.Descriptor, 0, len(p.selected))
	for _, d := range p.catalog.All() {
		if p.selected[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

// SelectionLabel summarizes the selection for the dropdown button.
func (p *Panel) SelectionLabel() string {
	switch n := len(p.selected); n {
	case 0:
		return "Select devices..."
	case 1:
		return "1 device selected"
	default:
		return strconv.Itoa(n) + " devices selected"
	}
}

// Scale returns the scale factor.
func (p *Panel) Scale() float64 { return p.scale }

// SetScale clamps v into the scale range.
func (p *Panel) SetScale(v float64) { p.scale = ClampScale(v) }

// StepScale moves the scale by n steps, snapping to the step grid.
func (p *Panel) StepScale(n int) { p.scale = SnapScale(p.scale + float64(n)*ScaleStep) }

// ScalePercent returns the scale as a whole percentage.
func (p *Panel) ScalePercent() int { return int(math.Round(p.scale * 100)) }

// View returns the view mode.
func (p *Panel) View() ViewMode { return p.view }

// SetViewMode sets the view mode; unknown values select grid.
func (p *Panel) SetViewMode(mode ViewMode) {
	if mode != ViewStack {
		mode = ViewGrid
	}
	p.view = mode
}

// DropdownOpen reports whether the device dropdown is showing.
func (p *Panel) DropdownOpen() bool { return p.dropdownOpen }

// OpenDropdown shows the device dropdown.
func (p *Panel) OpenDropdown() { p.dropdownOpen = true }

// CloseDropdown hides the device dropdown.
func (p *Panel) CloseDropdown() { p.dropdownOpen = false }

// ToggleDropdown flips dropdown visibility.
func (p *Panel) ToggleDropdown() { p.dropdownOpen = !p.dropdownOpen }

// TogglePlayPause forwards to the controller when video is loaded.
func (p *Panel) TogglePlayPause() {
	if p.media.IsVideo() {
		p.playback.TogglePlayPause()
	}
}

// RestartVideos forwards to the controller when video is loaded.
func (p *Panel) RestartVideos() {
	if p.media.IsVideo() {
		p.playback.Restart()
	}
}

// Sync reconciles video instances with the current selection and media:
// deselected devices are unmounted and newly visible frames are mounted.
func (p *Panel) Sync() {
	keep := make(map[string]bool, len(p.selected))
	if p.media.IsVideo() {
		for id := range p.selected {
			keep[id] = true
		}
	}
	p.playback.Retain(keep)
	if !p.media.IsVideo() || p.players == nil {
		return
	}
	for _, id := range p.SelectedIDs() {
		if _, ok := p.playback.Instance(id); ok {
			continue
		}
		p.playback.Mount(id, p.players(id))
	}
}
