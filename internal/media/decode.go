package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	// Extra still formats beyond the stdlib set imaging registers.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrStaleLocator is returned when a released locator is dereferenced.
var ErrStaleLocator = errors.New("locator already released")

// ErrNoFFmpeg is returned when a video still is requested without ffmpeg.
var ErrNoFFmpeg = errors.New("ffmpeg not available")

// DecodeImage decodes a still image, applying EXIF orientation.
func DecodeImage(f File) (image.Image, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	return img, nil
}

// Prober runs ffprobe and ffmpeg for video metadata and poster frames.
type Prober struct {
	FFprobe string
	FFmpeg  string
}

// Duration returns the container duration of a video.
func (p Prober) Duration(ctx context.Context, f File) (time.Duration, error) {
	bin := p.FFprobe
	if bin == "" {
		bin = "ffprobe"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return 0, fmt.Errorf("probe duration: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputArg(f),
	)
	if err := attachStdin(cmd, f); err != nil {
		return 0, err
	}
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("probe duration: %w", err)
	}
	return parseSeconds(string(out))
}

// PosterFrame decodes the first video frame.
func (p Prober) PosterFrame(ctx context.Context, f File) (image.Image, error) {
	bin := p.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, ErrNoFFmpeg
	}

	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-i", inputArg(f),
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	if err := attachStdin(cmd, f); err != nil {
		return nil, err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("extract poster frame: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode poster frame: %w", err)
	}
	return img, nil
}

// Load loads a displayable still for f: the image itself, or the first frame
// of a video.
func (p Prober) Load(ctx context.Context, f File, kind Kind) (image.Image, error) {
	if kind == KindVideo {
		return p.PosterFrame(ctx, f)
	}
	return DecodeImage(f)
}

func inputArg(f File) string {
	if f.Path == "" {
		return "pipe:0"
	}
	return f.Path
}

func attachStdin(cmd *exec.Cmd, f File) error {
	if f.Path != "" {
		return nil
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("read media: %w", err)
	}
	cmd.Stdin = bytes.NewReader(data)
	return nil
}

func parseSeconds(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	if secs < 0 {
		return 0, fmt.Errorf("parse duration %q: negative", raw)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Stills caches decoded stills by locator. Entries go away when the locator is
// released so a stale still is never shown.
type Stills struct {
	alloc   *Allocator
	entries map[Locator]Still
}

// Still is a decode result: an image or the error that prevented one.
type Still struct {
	Image image.Image
	Err   error
}

// NewStills returns a cache bound to alloc.
func NewStills(alloc *Allocator) *Stills {
	return &Stills{alloc: alloc, entries: make(map[Locator]Still)}
}

// Store records the decode result for loc. Results for released locators are
// dropped.
func (s *Stills) Store(loc Locator, img image.Image, err error) bool {
	if _, live := s.alloc.Resolve(loc); !live {
		return false
	}
	s.entries[loc] = Still{Image: img, Err: err}
	return true
}

// Lookup returns the cached result for loc. ok is false while the still is
// still loading.
func (s *Stills) Lookup(loc Locator) (Still, bool) {
	if _, live := s.alloc.Resolve(loc); !live {
		return Still{Err: ErrStaleLocator}, true
	}
	st, ok := s.entries[loc]
	return st, ok
}

// Forget drops the entry for loc.
func (s *Stills) Forget(loc Locator) {
	delete(s.entries, loc)
}
