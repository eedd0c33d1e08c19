// Package app is the composition root for the devpreview TUI.
//
// Run loads ~/.config/devpreview/config.toml, builds the device catalog,
// redirects the std logger to the diagnostics log, starts the drop-folder
// watcher and hands everything to ui.Run. It blocks until the user quits or
// the context is cancelled.
//
// Fatal errors (returned from Run):
//   - invalid config file or custom device entries
//   - a start-up file that cannot be read or is not an image or video
//   - a log file that cannot be opened
//
// A drop folder that cannot be watched is logged and skipped; media can still
// be opened from the prompt or pasted.
package app
