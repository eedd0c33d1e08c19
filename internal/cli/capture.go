package cli

import (
	"fmt"
	"image"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/devpreview/internal/capture"
	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/media"
)

func captureCmd() *cobra.Command {
	var (
		flags   sheetFlags
		browser string
		settle  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Screenshot a web page at each device's resolution",
		Long: `Capture loads the page in a headless Chromium-based browser once per
selected device, at the device's native resolution, and writes the
screenshots into device frames in a PNG.`,
		Example: `  devpreview capture http://localhost:3000
  devpreview capture https://example.com --all --settle 5s -o page.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, catalog, err := loadConfig()
			if err != nil {
				return err
			}

			target, err := url.Parse(args[0])
			if err != nil || target.Scheme == "" || (target.Host == "" && target.Scheme != "file") {
				return fmt.Errorf("capture: invalid url %q", args[0])
			}

			if browser == "" {
				browser = cfg.Browser
			}
			exe, err := capture.DetectBrowser(browser)
			if err != nil {
				return err
			}

			p, err := flags.panel(cmd, cfg, catalog)
			if err != nil {
				return err
			}
			defer p.Close()

			devs := p.Selected()
			fmt.Printf("%s Capturing %s on %d devices...\n", cyan("→"), target, len(devs))
			shots, err := capture.Capturer{Browser: exe, Settle: settle}.Shots(ctx, target.String(), devs)
			if err != nil {
				return err
			}
			if missing := len(devs) - len(shots); missing > 0 {
				warn("%d of %d captures failed", missing, len(devs))
			}

			// The captured page stands in for loaded media so frames are drawn
			// with screenshots instead of placeholders.
			p.LoadMedia(media.NewFile(target.String(), "image/png", nil))
			still := func(d device.Descriptor) (image.Image, error) {
				img, ok := shots[d.ID]
				if !ok {
					return nil, fmt.Errorf("no capture for %s", d.ID)
				}
				return img, nil
			}
			return writeSheet(p, still, flags.out)
		},
	}

	flags.register(cmd, "devpreview-capture.png")
	cmd.Flags().StringVar(&browser, "browser", "", "Browser executable (default: detect)")
	cmd.Flags().DurationVar(&settle, "settle", capture.DefaultSettle, "Wait after load before each screenshot")
	return cmd
}
