package cli

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/media"
)

func renderCmd() *cobra.Command {
	var flags sheetFlags

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Write a PNG preview of a file on each device",
		Long: `Render lays the selected device frames out like the TUI and writes them
to a PNG. Videos are shown by their first frame (requires ffmpeg).`,
		Example: `  devpreview render banner.png
  devpreview render clip.mp4 --all --view stack -o clip-preview.png
  devpreview render hero.jpg -d echo-show-5,echo-show-15 --scale 0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, catalog, err := loadConfig()
			if err != nil {
				return err
			}

			f, err := media.OpenFile(args[0])
			if err != nil {
				return err
			}
			if !media.Supported(f.ContentType) {
				return fmt.Errorf("render %s: unsupported type %q", f.Name, f.ContentType)
			}

			p, err := flags.panel(cmd, cfg, catalog)
			if err != nil {
				return err
			}
			defer p.Close()
			p.LoadMedia(f)

			prober := media.Prober{FFprobe: cfg.FFprobe, FFmpeg: cfg.FFmpeg}
			img, loadErr := prober.Load(ctx, f, p.Media().Kind)
			if loadErr != nil {
				warn("could not decode %s: %v", f.Name, loadErr)
			}
			still := func(device.Descriptor) (image.Image, error) { return img, loadErr }

			return writeSheet(p, still, flags.out)
		},
	}

	flags.register(cmd, "devpreview.png")
	return cmd
}
