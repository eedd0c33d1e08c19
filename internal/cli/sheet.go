package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/devpreview/internal/config"
	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/export"
	"github.com/five82/devpreview/internal/preview"
	"github.com/five82/devpreview/internal/state"
)

// ErrUnknownDevice is returned when --devices names an id outside the catalog.
var ErrUnknownDevice = errors.New("unknown device")

// sheetFlags are the selection and layout flags shared by render and capture.
type sheetFlags struct {
	devices []string
	all     bool
	scale   float64
	view    string
	out     string
}

func (f *sheetFlags) register(cmd *cobra.Command, defaultOut string) {
	cmd.Flags().StringSliceVarP(&f.devices, "devices", "d", nil, "Device ids to include (default from config)")
	cmd.Flags().BoolVarP(&f.all, "all", "a", false, "Include every device")
	cmd.Flags().Float64VarP(&f.scale, "scale", "s", 0, "Preview scale, 0.15 to 1.0 (default from config)")
	cmd.Flags().StringVar(&f.view, "view", "", "Layout: grid or stack (default from config)")
	cmd.Flags().StringVarP(&f.out, "out", "o", defaultOut, "Output PNG path")
}

// selection resolves which device ids the sheet shows.
func (f sheetFlags) selection(cfg config.Config, catalog *device.Catalog) ([]string, error) {
	if f.all {
		return catalog.IDs(), nil
	}
	if f.devices == nil {
		return cfg.DefaultDevices, nil
	}
	ids := make([]string, 0, len(f.devices))
	for _, id := range f.devices {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if !catalog.Has(id) {
			return nil, fmt.Errorf("%w %q (see devpreview devices)", ErrUnknownDevice, id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// panel builds the preview state for a one-shot export.
func (f sheetFlags) panel(cmd *cobra.Command, cfg config.Config, catalog *device.Catalog) (*state.Panel, error) {
	ids, err := f.selection(cfg, catalog)
	if err != nil {
		return nil, err
	}
	scale := cfg.Scale
	if cmd.Flags().Changed("scale") {
		scale = state.SnapScale(f.scale)
	}
	view := cfg.View
	if cmd.Flags().Changed("view") {
		view = state.ParseViewMode(f.view)
	}
	return state.NewPanel(state.Options{
		Catalog:  catalog,
		Selected: ids,
		Scale:    scale,
		View:     view,
	}), nil
}

// loadConfig reads the config and catalog named by --config.
func loadConfig() (config.Config, *device.Catalog, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, catalog, nil
}

// writeSheet renders the panel's plan with still and saves it to out.
func writeSheet(p *state.Panel, still export.StillFunc, out string) error {
	plan := preview.Build(p)
	img := export.Render(plan, still, export.Options{})
	if err := export.Save(out, img); err != nil {
		return err
	}
	b := img.Bounds()
	success("Wrote %s %s", out, dim(fmt.Sprintf("(%d×%d, %d devices)", b.Dx(), b.Dy(), len(plan.Frames))))
	return nil
}
