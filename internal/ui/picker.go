package ui

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/devpreview/internal/media"
)

const pickerRows = 12

var errNotMedia = errors.New("not an image or video")

// pickerEntry is one listed directory or media file.
type pickerEntry struct {
	Name string
	Path string
	Dir  bool
}

// picker is the open-file prompt. It lists directories and files whose
// declared type is image/* or video/* under the typed path.
type picker struct {
	input   textinput.Model
	entries []pickerEntry
	cursor  int
	err     error
}

func newPicker() picker {
	ti := textinput.New()
	ti.Prompt = "Open: "
	ti.Placeholder = "path to an image or video"
	ti.CharLimit = 4096
	return picker{input: ti}
}

// open resets the prompt to dir and lists it.
func (p *picker) open(dir string) {
	if dir != "" && !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	p.input.SetValue(dir)
	p.input.CursorEnd()
	p.input.Focus()
	p.refresh()
}

func (p *picker) refresh() {
	p.entries, p.err = listEntries(p.input.Value())
	p.cursor = 0
}

// setValue replaces the typed path and lists it.
func (p *picker) setValue(v string) {
	p.input.SetValue(v)
	p.input.CursorEnd()
	p.refresh()
}

// selected returns the entry under the cursor.
func (p picker) selected() (pickerEntry, bool) {
	if p.cursor < 0 || p.cursor >= len(p.entries) {
		return pickerEntry{}, false
	}
	return p.entries[p.cursor], true
}

// complete extends the typed path to the longest name all entries share.
// A single directory match also gets its trailing separator.
func (p *picker) complete() {
	if len(p.entries) == 0 {
		return
	}
	if len(p.entries) == 1 {
		e := p.entries[0]
		v := e.Path
		if e.Dir {
			v += string(filepath.Separator)
		}
		p.setValue(v)
		return
	}
	common := p.entries[0].Name
	for _, e := range p.entries[1:] {
		common = commonPrefix(common, e.Name)
	}
	dir, _ := splitInput(p.input.Value())
	if common != "" {
		p.setValue(filepath.Join(dir, common))
	}
}

// splitInput splits the typed path into the directory to list and the name
// prefix to match. A trailing separator lists the directory itself.
func splitInput(input string) (dir, prefix string) {
	path := expandHome(input)
	if path == "" {
		return ".", ""
	}
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return path, ""
	}
	return filepath.Dir(path), filepath.Base(path)
}

// listEntries lists directories and media files matching input, directories
// first. Matching is a case-insensitive name prefix. Hidden entries only
// show up once the prefix starts with a dot.
func listEntries(input string) ([]pickerEntry, error) {
	dir, prefix := splitInput(input)
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(prefix)

	var dirs, files []pickerEntry
	for _, it := range items {
		name := it.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(name), lower) {
			continue
		}
		entry := pickerEntry{Name: name, Path: filepath.Join(dir, name)}
		isDir := it.IsDir()
		if it.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(entry.Path); err == nil {
				isDir = info.IsDir()
			}
		}
		switch {
		case isDir:
			entry.Dir = true
			dirs = append(dirs, entry)
		case media.Supported(media.DeclaredType(name, nil)):
			files = append(files, entry)
		}
	}
	byName := func(a, b pickerEntry) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)
	return append(dirs, files...), nil
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~")) + trailingSep(path)
		}
	}
	return path
}

func trailingSep(path string) string {
	if path == "~" || strings.HasSuffix(path, "/") {
		return string(filepath.Separator)
	}
	return ""
}

func commonPrefix(a, b string) string {
	ar, br := []rune(a), []rune(b)
	n := min(len(ar), len(br))
	i := 0
	for i < n && strings.EqualFold(string(ar[i]), string(br[i])) {
		i++
	}
	return string(ar[:i])
}

// pickerStart picks where the prompt opens: the drop folder, then the
// working directory, then home.
func (m Model) pickerStart() string {
	if m.dropDir != "" {
		if info, err := os.Stat(m.dropDir); err == nil && info.IsDir() {
			return m.dropDir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return ""
}

// handlePickerKey handles input while the open prompt is shown.
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.pickerOpen = false
		m.picker.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		m.picker.complete()
		return m, nil

	case msg.Type == tea.KeyUp:
		if m.picker.cursor > 0 {
			m.picker.cursor--
		}
		return m, nil

	case msg.Type == tea.KeyDown:
		if m.picker.cursor < len(m.picker.entries)-1 {
			m.picker.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if e, ok := m.picker.selected(); ok {
			if e.Dir {
				m.picker.setValue(e.Path + string(filepath.Separator))
				return m, nil
			}
			return m.pickFile(e.Path)
		}
		path := expandHome(m.picker.input.Value())
		info, err := os.Stat(path)
		switch {
		case err != nil:
			m.picker.err = err
			return m, nil
		case info.IsDir():
			m.picker.setValue(path + string(filepath.Separator))
			return m, nil
		case !media.Supported(media.DeclaredType(path, nil)):
			m.picker.err = errNotMedia
			return m, nil
		}
		return m.pickFile(path)
	}

	var cmd tea.Cmd
	before := m.picker.input.Value()
	m.picker.input, cmd = m.picker.input.Update(msg)
	if m.picker.input.Value() != before {
		m.picker.refresh()
	}
	return m, cmd
}

func (m Model) pickFile(path string) (tea.Model, tea.Cmd) {
	m.pickerOpen = false
	m.picker.input.Blur()
	return m, openFileCmd(path, intakeBrowse)
}

// renderPicker renders the open prompt as a centered modal.
func (m Model) renderPicker() string {
	styles := m.theme.Styles()
	width := m.modalWidth()
	inner := width - 6

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Open Media"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", inner)))
	b.WriteString("\n")
	b.WriteString(m.picker.input.View())
	b.WriteString("\n\n")

	p := m.picker
	switch {
	case p.err != nil && errors.Is(p.err, errNotMedia):
		b.WriteString(styles.WarningText.Render("Not an image or video"))
		b.WriteString("\n")
	case p.err != nil:
		b.WriteString(styles.DangerText.Render(truncate(p.err.Error(), inner)))
		b.WriteString("\n")
	case len(p.entries) == 0:
		b.WriteString(styles.MutedText.Render("No images or videos here"))
		b.WriteString("\n")
	}

	start := 0
	if p.cursor >= pickerRows {
		start = p.cursor - pickerRows + 1
	}
	end := min(start+pickerRows, len(p.entries))
	for i := start; i < end; i++ {
		e := p.entries[i]
		name := e.Name
		style := styles.Text
		if e.Dir {
			name += string(filepath.Separator)
			style = styles.AccentText
		}
		line := truncateMiddle(name, inner-2)
		if i == p.cursor {
			b.WriteString(styles.Cursor.Width(inner).Render("> " + line))
		} else {
			b.WriteString("  " + style.Render(line))
		}
		b.WriteString("\n")
	}
	if len(p.entries) > end {
		b.WriteString(styles.FaintText.Render("  …"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab complete · ↑/↓ select · enter open · esc cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(width)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
