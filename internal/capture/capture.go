package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"

	"github.com/five82/devpreview/internal/device"
)

// ErrNoBrowser is returned when no Chromium-based browser can be found.
var ErrNoBrowser = errors.New("no Chromium-based browser found (install Chrome, Chromium, or Edge)")

// DefaultSettle is how long a page gets to finish rendering before capture.
const DefaultSettle = 2 * time.Second

// candidates lists browser locations for goos in preference order.
func candidates(goos string, getenv func(string) string) []string {
	switch goos {
	case "windows":
		return []string{
			filepath.Join(getenv("PROGRAMFILES(X86)"), "Microsoft", "Edge", "Application", "msedge.exe"),
			filepath.Join(getenv("PROGRAMFILES"), "Microsoft", "Edge", "Application", "msedge.exe"),
			filepath.Join(getenv("PROGRAMFILES(X86)"), "Google", "Chrome", "Application", "chrome.exe"),
			filepath.Join(getenv("PROGRAMFILES"), "Google", "Chrome", "Application", "chrome.exe"),
		}
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/usr/bin/microsoft-edge",
		}
	}
}

// DetectBrowser returns configured when it is set, otherwise the first known
// browser location that exists, otherwise a chromium binary on PATH.
func DetectBrowser(configured string) (string, error) {
	return detect(configured, runtime.GOOS, os.Getenv, fileExists, exec.LookPath)
}

func detect(configured, goos string, getenv func(string) string, exists func(string) bool, lookPath func(string) (string, error)) (string, error) {
	if configured != "" {
		if exists(configured) {
			return configured, nil
		}
		if p, err := lookPath(configured); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("browser %q: %w", configured, ErrNoBrowser)
	}
	for _, p := range candidates(goos, getenv) {
		if exists(p) {
			return p, nil
		}
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if p, err := lookPath(name); err == nil {
			return p, nil
		}
	}
	return "", ErrNoBrowser
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Capturer screenshots a page at device resolutions in a headless browser.
type Capturer struct {
	Browser string        // resolved browser path
	Settle  time.Duration // zero uses DefaultSettle
}

// Shots captures url once per device at the device's native resolution. A
// device whose capture fails is logged and left out of the result; an error
// is returned only when every capture fails.
func (c Capturer) Shots(ctx context.Context, url string, devs []device.Descriptor) (map[string]image.Image, error) {
	settle := c.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(c.Browser),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Headless,
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		shots   = make(map[string]image.Image, len(devs))
		lastErr error
	)
	for _, d := range devs {
		wg.Add(1)
		go func(d device.Descriptor) {
			defer wg.Done()

			tabCtx, cancel := chromedp.NewContext(allocCtx)
			defer cancel()

			img, err := shoot(tabCtx, url, d.Width, d.Height, settle)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("capture: %s failed: %v", d.ID, err)
				lastErr = err
				return
			}
			shots[d.ID] = img
		}(d)
	}
	wg.Wait()

	if len(shots) == 0 && lastErr != nil {
		return nil, fmt.Errorf("capture %s: %w", url, lastErr)
	}
	return shots, nil
}

func shoot(ctx context.Context, url string, width, height int, settle time.Duration) (image.Image, error) {
	var buf []byte
	err := chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(settle),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}
