// Package logtail reads and parses the tail of the devpreview log file for
// the diagnostics overlay.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines, so only the last lines are kept
// in memory no matter how large the file grows:
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//	if err != nil {
//		log.Printf("logtail: %v", err)
//	}
//
// Read returns nil, nil for a missing file. The log only exists once the TUI
// has written to it.
//
// # Parsing
//
// The TUI sends the std logger to a file with a "devpreview" prefix and
// LstdFlags, and every package logs as "component: message". Parse splits a
// line back into those parts and infers a Level from the wording:
//
//	devpreview 2026/10/14 09:30:00 media: decode a.png failed: EOF   → ERROR
//	devpreview 2026/10/14 09:30:01 intake: drop notes.txt ignored   → WARN
//	devpreview 2026/10/14 09:30:02 intake: loaded clip.mp4          → INFO
//
// Lines that do not match are kept as plain messages.
package logtail
