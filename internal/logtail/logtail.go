package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines reads every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is the severity inferred from a log message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Entry is one parsed line of the devpreview log.
type Entry struct {
	Time      time.Time // zero when the line has no timestamp
	Component string    // e.g. "playback"; empty when absent
	Message   string
	Level     Level
	Raw       string
}

const stampLayout = "2006/01/02 15:04:05"

// Parse splits a line written by the std logger with LstdFlags, optionally
// preceded by a one-word prefix:
//
//	devpreview 2026/10/14 09:30:00 playback: play echo-show-5 rejected: blocked
func Parse(line string) Entry {
	e := Entry{Raw: line}
	rest := strings.TrimSpace(line)

	if ts, after, ok := cutStamp(rest); ok {
		e.Time, rest = ts, after
	} else if sp := strings.IndexByte(rest, ' '); sp > 0 {
		if ts, after, ok := cutStamp(rest[sp+1:]); ok {
			e.Time, rest = ts, after
		}
	}

	if comp, msg, ok := strings.Cut(rest, ": "); ok && comp != "" && !strings.ContainsAny(comp, " \t") {
		e.Component, rest = comp, msg
	}
	e.Message = rest
	e.Level = classify(rest)
	return e
}

// ParseAll parses every line.
func ParseAll(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, l := range lines {
		out = append(out, Parse(l))
	}
	return out
}

func cutStamp(s string) (time.Time, string, bool) {
	if len(s) < len(stampLayout) {
		return time.Time{}, s, false
	}
	ts, err := time.ParseInLocation(stampLayout, s[:len(stampLayout)], time.Local)
	if err != nil {
		return time.Time{}, s, false
	}
	return ts, strings.TrimSpace(s[len(stampLayout):]), true
}

func classify(msg string) Level {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"), strings.Contains(lower, "panic"):
		return LevelError
	case strings.Contains(lower, "rejected"), strings.Contains(lower, "ignored"),
		strings.Contains(lower, "unsupported"), strings.Contains(lower, "warn"):
		return LevelWarn
	default:
		return LevelInfo
	}
}
