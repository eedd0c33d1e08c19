package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/devpreview/internal/device"
	"github.com/five82/devpreview/internal/playback"
	"github.com/five82/devpreview/internal/state"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", cfg.Theme, defaultTheme)
	}
	if cfg.Scale != state.DefaultScale {
		t.Fatalf("Scale = %v, want %v", cfg.Scale, state.DefaultScale)
	}
	if !reflect.DeepEqual(cfg.DefaultDevices, device.DefaultSelection) {
		t.Fatalf("DefaultDevices = %v, want %v", cfg.DefaultDevices, device.DefaultSelection)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if !strings.HasPrefix(cfg.DropDir, home) {
		t.Fatalf("DropDir = %q, want it under HOME %q", cfg.DropDir, home)
	}
	if cfg.CellWidth != 8 || cfg.CellHeight != 16 {
		t.Fatalf("cell = %dx%d, want 8x16", cfg.CellWidth, cfg.CellHeight)
	}
	if cfg.PlayPolicy != playback.PolicyAllow {
		t.Fatalf("PlayPolicy = %q, want allow", cfg.PlayPolicy)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
theme = "  Slate  "
scale = 0.42
view = "stack"
default_devices = [" echo-show-5 ", "", "echo-show-21"]
drop_dir = "  ~/Drop  "
log_file = "~/logs/dp.log"
cell_width = 10
cell_height = 20
play_policy = "BLOCK"
ffmpeg = " /opt/ffmpeg "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", cfg.Theme)
	}
	if cfg.Scale != 0.4 {
		t.Fatalf("Scale = %v, want 0.4 (snapped)", cfg.Scale)
	}
	if cfg.View != state.ViewStack {
		t.Fatalf("View = %q, want stack", cfg.View)
	}
	if !reflect.DeepEqual(cfg.DefaultDevices, []string{"echo-show-5", "echo-show-21"}) {
		t.Fatalf("DefaultDevices = %v", cfg.DefaultDevices)
	}
	if cfg.DropDir != filepath.Join(home, "Drop") {
		t.Fatalf("DropDir = %q, want %q", cfg.DropDir, filepath.Join(home, "Drop"))
	}
	if cfg.LogFile != filepath.Join(home, "logs", "dp.log") {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.CellWidth != 10 || cfg.CellHeight != 20 {
		t.Fatalf("cell = %dx%d, want 10x20", cfg.CellWidth, cfg.CellHeight)
	}
	if cfg.PlayPolicy != playback.PolicyBlock {
		t.Fatalf("PlayPolicy = %q, want block", cfg.PlayPolicy)
	}
	if cfg.FFmpeg != "/opt/ffmpeg" {
		t.Fatalf("FFmpeg = %q", cfg.FFmpeg)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
theme = "   "
view = ""
log_file = ""
cell_width = 0
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.Theme != def.Theme || cfg.View != def.View || cfg.LogFile != def.LogFile || cfg.CellWidth != def.CellWidth {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoad_EmptyDropDirDisablesWatcher(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `drop_dir = ""`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DropDir != "" {
		t.Fatalf("DropDir = %q, want empty", cfg.DropDir)
	}
}

func TestLoad_CustomDevicesExtendCatalog(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[[device]]
id = "echo-spot"
name = "Echo Spot"
screen_size = '2.83"'
width = 240
height = 240
year = 2024
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog returned error: %v", err)
	}
	if catalog.Len() != len(device.Builtin())+1 {
		t.Fatalf("catalog len = %d, want %d", catalog.Len(), len(device.Builtin())+1)
	}
	spot, ok := catalog.Lookup("echo-spot")
	if !ok || spot.Resolution() != "240×240" {
		t.Fatalf("Lookup(echo-spot) = %+v, %v", spot, ok)
	}
}

func TestCatalog_DuplicateDeviceFails(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[[device]]
id = "echo-show-5"
name = "Clone"
width = 1
height = 1
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := cfg.Catalog(); err == nil {
		t.Fatal("Catalog returned nil error for duplicate id")
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `theme = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
