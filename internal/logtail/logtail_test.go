package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read(missing) = %v, %v, want nil, nil", lines, err)
	}
}

func TestParse(t *testing.T) {
	stamp := time.Date(2026, 10, 14, 9, 30, 0, 0, time.Local)
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "prefixed warn",
			input: "devpreview 2026/10/14 09:30:00 playback: play echo-show-5 rejected: play blocked by policy",
			want: Entry{
				Time:      stamp,
				Component: "playback",
				Message:   "play echo-show-5 rejected: play blocked by policy",
				Level:     LevelWarn,
			},
		},
		{
			name:  "unprefixed error",
			input: "2026/10/14 09:30:00 media: decode bad.png failed: unexpected EOF",
			want: Entry{
				Time:      stamp,
				Component: "media",
				Message:   "decode bad.png failed: unexpected EOF",
				Level:     LevelError,
			},
		},
		{
			name:  "no stamp no component",
			input: "starting up",
			want:  Entry{Message: "starting up", Level: LevelInfo},
		},
		{
			name:  "multi-word head is not a component",
			input: "2026/10/14 09:30:00 loaded file: clip.mp4",
			want:  Entry{Time: stamp, Message: "loaded file: clip.mp4", Level: LevelInfo},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			tt.want.Raw = tt.input
			if !got.Time.Equal(tt.want.Time) {
				t.Fatalf("Time = %v, want %v", got.Time, tt.want.Time)
			}
			got.Time, tt.want.Time = time.Time{}, time.Time{}
			if got != tt.want {
				t.Fatalf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if LevelError.String() != "ERROR" || LevelWarn.String() != "WARN" || LevelInfo.String() != "INFO" {
		t.Fatal("unexpected level names")
	}
}
