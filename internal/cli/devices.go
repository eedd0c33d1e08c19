package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/preview"
)

func devicesCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Print the device reference table",
		Example: `  devpreview devices
  devpreview devices --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, catalog, err := loadConfig()
			if err != nil {
				return err
			}
			if jsonOut {
				return writeDevicesJSON(os.Stdout, catalog)
			}
			defaults := make(map[string]bool, len(cfg.DefaultDevices))
			for _, id := range cfg.DefaultDevices {
				defaults[id] = true
			}
			writeReference(os.Stdout, catalog, defaults)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

type deviceJSON struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ScreenSize string  `json:"screen_size"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Year       int     `json:"year"`
	Aspect     float64 `json:"aspect_ratio"`
}

func writeDevicesJSON(w io.Writer, catalog *device.Catalog) error {
	all := catalog.All()
	out := make([]deviceJSON, len(all))
	for i, d := range all {
		out[i] = deviceJSON{
			ID:         d.ID,
			Name:       d.Name,
			ScreenSize: d.ScreenSize,
			Width:      d.Width,
			Height:     d.Height,
			Year:       d.Year,
			Aspect:     d.AspectRatio(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeReference prints the reference table with the id column first.
// Default devices are marked with an asterisk.
func writeReference(w io.Writer, catalog *device.Catalog, defaults map[string]bool) {
	header := append([]string{"ID"}, preview.ReferenceHeader.Cells()...)
	rows := [][]string{header}
	ids := catalog.IDs()
	for i, r := range preview.Reference(catalog) {
		rows = append(rows, append([]string{ids[i]}, r.Cells()...))
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for c, cell := range row {
			widths[c] = max(widths[c], len([]rune(cell)))
		}
	}

	for i, row := range rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			pad := strings.Repeat(" ", widths[c]-len([]rune(cell)))
			switch {
			case i == 0:
				cells[c] = bold(cell) + pad
			case c == 0:
				cells[c] = cyan(cell) + pad
			default:
				cells[c] = cell + pad
			}
		}
		mark := "  "
		if i > 0 && defaults[ids[i-1]] {
			mark = green("* ")
		}
		fmt.Fprintln(w, strings.TrimRight(mark+strings.Join(cells, "  "), " "))
	}
	fmt.Fprintln(w, dim("* selected by default"))
}
