// Package config loads devpreview settings from TOML.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided (--config), use it
//  2. Otherwise, use ~/.config/devpreview/config.toml
//  3. If the file doesn't exist, use Default()
//  4. If the file exists but fields are missing or blank, keep the defaults
//
// Missing config files are not an error, so devpreview works without one.
// A file that exists but does not parse is fatal at startup.
//
// # TOML Format
//
//	theme = "Slate"                 # Dracula | Slate
//	scale = 0.3                     # snapped to 0.05, clamped to [0.15, 1.0]
//	view = "grid"                   # grid | stack
//	default_devices = ["echo-show-8-2023", "echo-show-15"]
//	drop_dir = "~/.local/share/devpreview/drop"   # "" disables the drop folder
//	log_file = "~/.local/state/devpreview/devpreview.log"
//	cell_width = 8                  # preview pixels per terminal column
//	cell_height = 16                # preview pixels per terminal row
//	play_policy = "allow"           # allow | block
//	ffprobe = "ffprobe"
//	ffmpeg = "ffmpeg"
//	browser = ""                    # Chromium path for capture; empty autodetects
//
//	[[device]]
//	id = "echo-spot"
//	name = "Echo Spot"
//	screen_size = '2.83"'
//	width = 240
//	height = 240
//	year = 2024
//
// Tilde expansion is applied to drop_dir, log_file and browser.
//
// Config is loaded once at startup and passed by value. Nothing here is ever
// written back; theme changes made in the UI last for the session only.
package config
