package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/devpreview/internal/config"
	"github.com/five82/devpreview/internal/dropwatch"
	"github.com/five82/devpreview/internal/media"
	"github.com/five82/devpreview/internal/ui"
)

// ErrUnsupportedMedia is returned for a start-up file that is not an image
// or video.
var ErrUnsupportedMedia = errors.New("not an image or video")

// Options configure the devpreview TUI.
type Options struct {
	ConfigPath string // empty uses ~/.config/devpreview/config.toml
	File       string // optional media to load on start
}

// Run boots the preview TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	initial := ""
	if opts.File != "" {
		if initial, err = checkFile(opts.File); err != nil {
			return err
		}
	}

	closeLog, err := setupLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var drops <-chan dropwatch.Drop
	dropDir := ""
	if cfg.DropDir != "" {
		w, err := dropwatch.New(cfg.DropDir, dropwatch.DefaultDebounce)
		if err != nil {
			// The TUI still works through the prompt and pasted paths.
			log.Printf("dropwatch: disabled: %v", err)
		} else {
			defer func() { _ = w.Close() }()
			drops = w.Watch(ctx)
			dropDir = w.Dir()
			log.Printf("dropwatch: watching %s", dropDir)
		}
	}

	uiOpts := ui.Options{
		Context:     ctx,
		Catalog:     catalog,
		Selected:    cfg.DefaultDevices,
		Scale:       cfg.Scale,
		View:        cfg.View,
		ThemeName:   cfg.Theme,
		PlayPolicy:  cfg.PlayPolicy,
		CellWidth:   cfg.CellWidth,
		CellHeight:  cfg.CellHeight,
		Loader:      media.Prober{FFprobe: cfg.FFprobe, FFmpeg: cfg.FFmpeg},
		Drops:       drops,
		DropDir:     dropDir,
		LogFile:     cfg.LogFile,
		InitialFile: initial,
	}
	return ui.Run(uiOpts)
}

// checkFile verifies the start-up file can be read and is a supported type.
func checkFile(path string) (string, error) {
	f, err := media.OpenFile(path)
	if err != nil {
		return "", err
	}
	if !media.Supported(f.ContentType) {
		return "", fmt.Errorf("open media %s: %w", f.Name, ErrUnsupportedMedia)
	}
	return f.Path, nil
}

// setupLog sends the std logger to path so log lines don't tear the TUI.
func setupLog(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "devpreview")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetFlags(log.LstdFlags)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
