package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/playback"
	"github.com/five82/devpreview/internal/state"
)

// Config holds devpreview settings.
type Config struct {
	Theme          string
	Scale          float64
	View           state.ViewMode
	DefaultDevices []string
	DropDir        string // empty disables the drop folder
	LogFile        string
	CellWidth      int // terminal cell size in preview pixels
	CellHeight     int
	PlayPolicy     playback.Policy
	FFprobe        string
	FFmpeg         string
	Browser        string
	Devices        []device.Descriptor // extra catalog entries
}

const (
	defaultConfigPath = "~/.config/devpreview/config.toml"
	defaultLogFile    = "~/.local/state/devpreview/devpreview.log"
	defaultDropDir    = "~/.local/share/devpreview/drop"
	defaultTheme      = "Dracula"
	defaultCellWidth  = 8
	defaultCellHeight = 16
)

type rawDevice struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	ScreenSize string `toml:"screen_size"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Year       int    `toml:"year"`
}

type rawConfig struct {
	Theme          string      `toml:"theme"`
	Scale          float64     `toml:"scale"`
	View           string      `toml:"view"`
	DefaultDevices []string    `toml:"default_devices"`
	DropDir        *string     `toml:"drop_dir"`
	LogFile        string      `toml:"log_file"`
	CellWidth      int         `toml:"cell_width"`
	CellHeight     int         `toml:"cell_height"`
	PlayPolicy     string      `toml:"play_policy"`
	FFprobe        string      `toml:"ffprobe"`
	FFmpeg         string      `toml:"ffmpeg"`
	Browser        string      `toml:"browser"`
	Devices        []rawDevice `toml:"device"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Theme:          defaultTheme,
		Scale:          state.DefaultScale,
		View:           state.ViewGrid,
		DefaultDevices: append([]string(nil), device.DefaultSelection...),
		DropDir:        mustExpand(defaultDropDir),
		LogFile:        mustExpand(defaultLogFile),
		CellWidth:      defaultCellWidth,
		CellHeight:     defaultCellHeight,
		PlayPolicy:     playback.PolicyAllow,
	}
}

// Load reads the config at path (or the default location), falling back to
// defaults when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		cfg.Theme = theme
	}
	if raw.Scale != 0 {
		cfg.Scale = state.SnapScale(raw.Scale)
	}
	if strings.TrimSpace(raw.View) != "" {
		cfg.View = state.ParseViewMode(raw.View)
	}
	if raw.DefaultDevices != nil {
		cfg.DefaultDevices = cfg.DefaultDevices[:0]
		for _, id := range raw.DefaultDevices {
			if id = strings.TrimSpace(id); id != "" {
				cfg.DefaultDevices = append(cfg.DefaultDevices, id)
			}
		}
	}
	if raw.DropDir != nil {
		// An explicit empty string turns the drop folder off.
		cfg.DropDir = ""
		if dir := strings.TrimSpace(*raw.DropDir); dir != "" {
			cfg.DropDir = mustExpand(dir)
		}
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if raw.CellWidth > 0 {
		cfg.CellWidth = raw.CellWidth
	}
	if raw.CellHeight > 0 {
		cfg.CellHeight = raw.CellHeight
	}
	if strings.TrimSpace(raw.PlayPolicy) != "" {
		cfg.PlayPolicy = playback.ParsePolicy(raw.PlayPolicy)
	}
	cfg.FFprobe = strings.TrimSpace(raw.FFprobe)
	cfg.FFmpeg = strings.TrimSpace(raw.FFmpeg)
	if browser := strings.TrimSpace(raw.Browser); browser != "" {
		cfg.Browser = mustExpand(browser)
	}

	for _, d := range raw.Devices {
		cfg.Devices = append(cfg.Devices, device.Descriptor{
			ID:         strings.TrimSpace(d.ID),
			Name:       strings.TrimSpace(d.Name),
			ScreenSize: strings.TrimSpace(d.ScreenSize),
			Width:      d.Width,
			Height:     d.Height,
			Year:       d.Year,
		})
	}

	return cfg, nil
}

// Catalog returns the built-in devices followed by any configured extras.
func (c Config) Catalog() (*device.Catalog, error) {
	devs := append(device.Builtin(), c.Devices...)
	catalog, err := device.NewCatalog(devs)
	if err != nil {
		return nil, fmt.Errorf("build device catalog: %w", err)
	}
	return catalog, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
