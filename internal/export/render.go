package export

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/preview"
)

// Layout constants in output pixels.
const (
	canvasPadding = 40
	frameGap      = 24
	bezelInset    = 12 // bezel thickness around the screen
	bezelRadius   = 16
	screenRadius  = 8
	cameraRadius  = 4
	captionGap    = 12
	lineHeight    = 16
	captionLines  = 3
)

var (
	bezelColor       = color.NRGBA{0x1a, 0x1a, 0x2e, 0xff}
	cameraColor      = color.NRGBA{0x47, 0x55, 0x69, 0xff}
	placeholderColor = color.NRGBA{0x1e, 0x29, 0x3b, 0xff}
	brokenColor      = color.NRGBA{0x2a, 0x10, 0x14, 0xff}
	dangerColor      = color.NRGBA{0xef, 0x44, 0x44, 0xff}
	titleColor       = color.NRGBA{0xe2, 0xe8, 0xf0, 0xff}
	mutedColor       = color.NRGBA{0x64, 0x74, 0x8b, 0xff}
	accentColor      = color.NRGBA{0x22, 0xd3, 0xee, 0xb3}
)

// StillFunc supplies the still shown on a device screen. A nil image with a
// nil error draws the placeholder; an error draws the broken-media screen.
type StillFunc func(d device.Descriptor) (image.Image, error)

// Options control the output canvas.
type Options struct {
	Background color.Color
	MaxWidth   int // grid wrap width in pixels; zero uses 2560
}

type placed struct {
	frame preview.Frame
	x, y  int // top-left of the bezel
}

// Render draws the plan onto a new canvas.
func Render(plan preview.Plan, still StillFunc, opts Options) *image.NRGBA {
	bg := opts.Background
	if bg == nil {
		bg = color.NRGBA{0x0f, 0x17, 0x2a, 0xff}
	}
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = 2560
	}

	if plan.Empty() {
		w, h := 640, 200
		canvas := imaging.New(w, h, bg)
		drawCentered(canvas, preview.EmptyMessage, w/2, h/2, mutedColor)
		return canvas
	}

	widths := make([]int, len(plan.Frames))
	for i, f := range plan.Frames {
		widths[i] = outerWidth(f)
	}
	rows := preview.Arrange(plan.View, widths, maxWidth-2*canvasPadding, frameGap)

	var items []placed
	rowWidths := make([]int, len(rows))
	canvasW, canvasH := 0, canvasPadding
	for r, row := range rows {
		rowH := 0
		for i, idx := range row {
			if i > 0 {
				rowWidths[r] += frameGap
			}
			rowWidths[r] += widths[idx]
			rowH = max(rowH, outerHeight(plan.Frames[idx]))
		}
		canvasW = max(canvasW, rowWidths[r])

		x := 0
		for _, idx := range row {
			items = append(items, placed{frame: plan.Frames[idx], x: x, y: canvasH})
			x += widths[idx] + frameGap
		}
		canvasH += rowH
		if r < len(rows)-1 {
			canvasH += frameGap
		}
	}
	canvasW += 2 * canvasPadding
	canvasH += canvasPadding

	canvas := imaging.New(canvasW, canvasH, bg)

	// Center each row horizontally.
	i := 0
	for r, row := range rows {
		offset := canvasPadding + (canvasW-2*canvasPadding-rowWidths[r])/2
		for range row {
			items[i].x += offset
			i++
		}
	}

	for _, it := range items {
		drawFrame(canvas, it, plan, still)
	}
	return canvas
}

// Save writes img to path, choosing the encoder by extension.
func Save(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save preview: %w", err)
	}
	return nil
}

func outerWidth(f preview.Frame) int {
	bezel := f.Width + 2*bezelInset
	return max(bezel, textWidth(f.Caption()))
}

func outerHeight(f preview.Frame) int {
	return f.Height + 2*bezelInset + captionGap + captionLines*lineHeight
}

func drawFrame(canvas *image.NRGBA, it placed, plan preview.Plan, still StillFunc) {
	f := it.frame
	outer := outerWidth(f)
	bezelW, bezelH := f.Width+2*bezelInset, f.Height+2*bezelInset
	bx := it.x + (outer-bezelW)/2
	by := it.y

	bezelRect := image.Rect(bx, by, bx+bezelW, by+bezelH)
	draw.DrawMask(canvas, bezelRect, image.NewUniform(bezelColor), image.Point{},
		roundedMask(bezelW, bezelH, bezelRadius), image.Point{}, draw.Over)

	screenRect := image.Rect(bx+bezelInset, by+bezelInset, bx+bezelInset+f.Width, by+bezelInset+f.Height)
	screen := renderScreen(f, plan, still)
	draw.DrawMask(canvas, screenRect, screen, image.Point{},
		roundedMask(f.Width, f.Height, screenRadius), image.Point{}, draw.Over)

	camX := bx + bezelW/2 - cameraRadius
	camRect := image.Rect(camX, by+2, camX+2*cameraRadius, by+2+2*cameraRadius)
	draw.DrawMask(canvas, camRect, image.NewUniform(cameraColor), image.Point{},
		roundedMask(2*cameraRadius, 2*cameraRadius, cameraRadius), image.Point{}, draw.Over)

	cx := it.x + outer/2
	ty := by + bezelH + captionGap + lineHeight/2
	drawCentered(canvas, f.Device.Name, cx, ty, titleColor)
	drawCentered(canvas, f.Spec(), cx, ty+lineHeight, mutedColor)
	drawCentered(canvas, f.PreviewSize(), cx, ty+2*lineHeight, accentColor)
}

func renderScreen(f preview.Frame, plan preview.Plan, still StillFunc) image.Image {
	if plan.Media.IsZero() || still == nil {
		return placeholderScreen(f.Width, f.Height, preview.Placeholder)
	}
	img, err := still(f.Device)
	if err != nil {
		log.Printf("export: media for %s failed to load: %v", f.Device.ID, err)
		return brokenScreen(f.Width, f.Height)
	}
	if img == nil {
		return placeholderScreen(f.Width, f.Height, preview.Placeholder)
	}
	return imaging.Fill(img, f.Width, f.Height, imaging.Center, imaging.Lanczos)
}

func placeholderScreen(w, h int, label string) *image.NRGBA {
	img := imaging.New(w, h, placeholderColor)
	drawCentered(img, label, w/2, h/2, mutedColor)
	return img
}

func brokenScreen(w, h int) *image.NRGBA {
	img := imaging.New(w, h, brokenColor)
	// Diagonal cross, a few pixels thick.
	for t := -1; t <= 1; t++ {
		for x := 0; x < w; x++ {
			y1 := x*h/w + t
			y2 := h - 1 - x*h/w + t
			if y1 >= 0 && y1 < h {
				img.Set(x, y1, dangerColor)
			}
			if y2 >= 0 && y2 < h {
				img.Set(x, y2, dangerColor)
			}
		}
	}
	return img
}

// roundedMask returns an alpha mask that is opaque except outside the four
// rounded corners.
func roundedMask(w, h, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r := float64(min(radius, w/2, h/2))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !outsideCorner(x, y, w, h, r) {
				mask.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return mask
}

// outsideCorner reports whether (x, y) falls outside one of the rounded
// corners of a w×h rectangle.
func outsideCorner(x, y, w, h int, r float64) bool {
	ri := int(r)
	var cx, cy float64
	switch {
	case x < ri && y < ri:
		cx, cy = r, r
	case x > w-ri-1 && y < ri:
		cx, cy = float64(w)-r, r
	case x < ri && y > h-ri-1:
		cx, cy = r, float64(h)-r
	case x > w-ri-1 && y > h-ri-1:
		cx, cy = float64(w)-r, float64(h)-r
	default:
		return false
	}
	dx := float64(x) + 0.5 - cx
	dy := float64(y) + 0.5 - cy
	return dx*dx+dy*dy > r*r
}

var face = basicfont.Face7x13

// faceText maps caption text onto the glyphs basicfont covers (printable
// ASCII). Anything else would draw as the replacement glyph.
func faceText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= ' ' && r <= '~':
			return r
		case r == '×':
			return 'x'
		case r == '·', r == '•', r == '–', r == '—':
			return '-'
		case r == '…':
			return '.'
		case r == '“', r == '”', r == '″':
			return '"'
		case r == '‘', r == '’', r == '′':
			return '\''
		default:
			return '?'
		}
	}, s)
}

func textWidth(s string) int {
	return font.MeasureString(face, faceText(s)).Ceil()
}

// drawCentered draws s centered on (cx, cy).
func drawCentered(dst draw.Image, s string, cx, cy int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	x := cx - textWidth(s)/2
	y := cy + face.Ascent/2
	d.Dot = fixed.P(x, y)
	d.DrawString(faceText(s))
}
