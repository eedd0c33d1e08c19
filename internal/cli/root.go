package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/five82/devpreview/internal/app"
)

var (
	configPath string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "devpreview [file]",
		Short: "Preview media on smart-display screens",
		Long: `devpreview shows an image or video the way it lands on each Echo Show screen.

Common workflows:
  devpreview                     Open the preview TUI
  devpreview banner.png          Open the TUI with a file loaded
  devpreview devices             Print the device reference table
  devpreview render banner.png   Write a PNG preview sheet
  devpreview capture URL         Screenshot a page on every device`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/devpreview/config.toml)")
}

// Execute runs the command line.
func Execute(ctx context.Context, version string) error {
	rootCmd.Version = version

	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(captureCmd())

	return rootCmd.ExecuteContext(ctx)
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [file]",
		Short: "Open the preview TUI",
		Example: `  devpreview tui
  devpreview tui ~/Pictures/banner.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := app.Options{ConfigPath: configPath}
	if len(args) == 1 {
		opts.File = args[0]
	}
	return app.Run(cmd.Context(), opts)
}
