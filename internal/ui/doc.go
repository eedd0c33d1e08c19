// Package ui provides the terminal preview panel for devpreview.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns a state.Panel and renders one
// mockup per selected device: a rounded bezel with a camera dot, the media
// cover-fitted into the screen as half-block cells, and a caption with the
// device name, native spec and scaled preview size. A reference table of all
// devices sits below the frames.
//
// All state changes happen in Update on the program goroutine. Slow work
// (opening files, decoding stills, probing video durations, reading the log)
// runs in tea.Cmds and reports back with messages carrying the media
// locator they were started for. Results for a locator that has since been
// released are discarded.
//
// # Package Structure
//
//   - app.go: Model, Update, messages, commands and Run
//   - frames.go: device frames, half-block screens and the preview layout
//   - reference.go: device reference table
//   - header.go: status line and command bar
//   - dropdown.go: device checklist with outside-press close
//   - picker.go: open-file prompt filtered to images and videos
//   - diagnostics.go: log overlay
//   - help.go: key binding overlay
//   - theme.go, style_helpers.go: palettes and shared-background rendering
//
// # Media Intake
//
// Files arrive three ways: the "o" prompt (browse), a path pasted into the
// terminal (most terminals paste a path when a file is dragged onto them),
// and files written to the watched drop folder. Pasted and dropped files
// are ignored unless their declared type is image/* or video/*.
//
// # Mouse
//
// Mouse reporting is only enabled while the device list is open. A left
// press outside the list closes it. Opening an overlay closes the list.
package ui
