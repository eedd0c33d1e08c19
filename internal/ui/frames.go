package ui

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"

	"github.com/five82/devpreview/internal/media"
	"github.com/five82/devpreview/internal/playback"
	"github.com/five82/devpreview/internal/preview"
)

// Frame layout in terminal cells.
const (
	frameGap      = 2  // columns between frames in a grid row
	minBlockWidth = 26 // frames narrower than this still get a readable caption
)

// cellSize maps a preview size in pixels to terminal columns and rows.
func cellSize(width, height, cellW, cellH int) (cols, rows int) {
	cols = int(math.Round(float64(width) / float64(cellW)))
	rows = int(math.Round(float64(height) / float64(cellH)))
	return max(cols, 1), max(rows, 1)
}

type cellKey struct {
	loc  media.Locator
	cols int
	rows int
}

// cellCache keeps rendered half-block screens for the current media. Frames
// that share a resolution share an entry.
type cellCache struct {
	loc     media.Locator
	entries map[cellKey][]string
}

func newCellCache() *cellCache {
	return &cellCache{entries: make(map[cellKey][]string)}
}

func (c *cellCache) screen(loc media.Locator, img image.Image, cols, rows int) []string {
	if loc != c.loc {
		clear(c.entries)
		c.loc = loc
	}
	k := cellKey{loc: loc, cols: cols, rows: rows}
	if lines, ok := c.entries[k]; ok {
		return lines
	}
	lines := halfBlock(img, cols, rows)
	c.entries[k] = lines
	return lines
}

// halfBlock cover-fits img to cols×rows cells. Each cell shows two vertical
// pixels: the upper half block in the foreground color and the lower pixel
// as the background.
func halfBlock(img image.Image, cols, rows int) []string {
	fit := imaging.Fill(img, cols, rows*2, imaging.Center, imaging.Box)
	lines := make([]string, rows)
	var b strings.Builder
	for y := range rows {
		b.Reset()
		for x := range cols {
			top := fit.NRGBAAt(x, 2*y)
			bottom := fit.NRGBAAt(x, 2*y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bottom.R, bottom.G, bottom.B))).
				Render("▀"))
		}
		lines[y] = b.String()
	}
	return lines
}

// filledScreen renders a solid screen with label on the middle row.
func filledScreen(style lipgloss.Style, cols, rows int, label string) []string {
	lines := make([]string, rows)
	blank := style.Render(strings.Repeat(" ", cols))
	for i := range lines {
		lines[i] = blank
	}
	label = truncate(label, cols)
	lines[rows/2] = style.Width(cols).Align(lipgloss.Center).Render(label)
	return lines
}

// screenLines renders what a device screen currently shows.
func (m Model) screenLines(cols, rows int) []string {
	styles := m.theme.Styles()
	ref := m.panel.Media()
	if ref.IsZero() {
		return filledScreen(styles.Placeholder, cols, rows, preview.Placeholder)
	}
	still, ok := m.stills.Lookup(ref.Locator)
	switch {
	case !ok:
		return filledScreen(styles.Placeholder, cols, rows, "Loading…")
	case still.Err != nil || still.Image == nil:
		broken := styles.Placeholder.Foreground(lipgloss.Color(m.theme.Danger)).Bold(true)
		return filledScreen(broken, cols, rows, "✕ Media failed to load")
	default:
		return m.cells.screen(ref.Locator, still.Image, cols, rows)
	}
}

// renderFrame renders one device mockup and its caption.
func (m Model) renderFrame(f preview.Frame) string {
	styles := m.theme.Styles()
	cols, rows := cellSize(f.Width, f.Height, m.cellW, m.cellH)
	width := max(cols+2, minBlockWidth)

	lines := []string{m.bezelTop(cols)}
	side := styles.Bezel.Render("│")
	for _, l := range m.screenLines(cols, rows) {
		lines = append(lines, side+l+side)
	}
	lines = append(lines, styles.Bezel.Render("╰"+strings.Repeat("─", cols)+"╯"))

	lines = append(lines,
		styles.Text.Bold(true).Render(truncate(f.Device.Title(), width)),
		styles.MutedText.Render(truncate(f.Spec(), width)),
		styles.AccentText.Render(truncate(f.PreviewSize(), width)),
	)
	if status := m.playbackStatus(f.Device.ID); status != "" {
		lines = append(lines, styles.InfoText.Render(status))
	}

	for i, l := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, l)
	}
	return strings.Join(lines, "\n")
}

// bezelTop draws the top edge with the camera dot in the middle.
func (m Model) bezelTop(cols int) string {
	styles := m.theme.Styles()
	left := (cols - 1) / 2
	right := cols - 1 - left
	if cols < 3 {
		return styles.Bezel.Render("╭" + strings.Repeat("─", cols) + "╮")
	}
	return styles.Bezel.Render("╭"+strings.Repeat("─", left)) +
		styles.Camera.Render("•") +
		styles.Bezel.Render(strings.Repeat("─", right)+"╮")
}

// playbackStatus describes the actual state of the device's video clock.
func (m Model) playbackStatus(deviceID string) string {
	if !m.panel.Media().IsVideo() {
		return ""
	}
	inst, ok := m.panel.Playback().Instance(deviceID)
	if !ok {
		return ""
	}
	clock, ok := inst.(*playback.Clock)
	if !ok {
		return ""
	}
	icon := "⏸"
	if clock.Playing() {
		icon = "▶"
	}
	status := icon + " " + formatClock(clock.Position())
	if d := clock.Duration(); d > 0 {
		status += " / " + formatClock(d)
	}
	return status
}

// renderPreview renders every selected frame plus the reference table.
func (m Model) renderPreview() string {
	styles := m.theme.Styles()
	plan := preview.Build(m.panel)

	var sections []string
	if plan.Empty() {
		msg := styles.MutedText.Render(preview.EmptyMessage)
		sections = append(sections, "", lipgloss.PlaceHorizontal(m.width, lipgloss.Center, msg), "")
	} else {
		blocks := make([]string, len(plan.Frames))
		widths := make([]int, len(plan.Frames))
		for i, f := range plan.Frames {
			blocks[i] = m.renderFrame(f)
			widths[i] = lipgloss.Width(blocks[i])
		}
		gap := strings.Repeat(" ", frameGap)
		for _, row := range preview.Arrange(plan.View, widths, m.width-2, frameGap) {
			parts := make([]string, 0, 2*len(row))
			for i, idx := range row {
				if i > 0 {
					parts = append(parts, gap)
				}
				parts = append(parts, blocks[idx])
			}
			joined := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
			sections = append(sections, lipgloss.NewStyle().PaddingLeft(1).Render(joined), "")
		}
	}

	sections = append(sections, m.renderReference())
	return strings.Join(sections, "\n")
}
