package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func entryNames(entries []pickerEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

func TestListEntriesFiltersToMedia(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.png", "A.mp4", "notes.txt", ".hidden.png", "c.jpg")
	if err := os.Mkdir(filepath.Join(dir, "zshots"), 0o755); err != nil {
		t.Fatal(err)
	}

	entries, err := listEntries(dir + string(filepath.Separator))
	if err != nil {
		t.Fatalf("listEntries: %v", err)
	}
	got := entryNames(entries)
	want := []string{"zshots", "A.mp4", "b.png", "c.jpg"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
	if !entries[0].Dir {
		t.Fatal("directory not flagged")
	}
}

func TestListEntriesPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "banner.png", "Backdrop.jpg", "clip.mp4")

	entries, err := listEntries(filepath.Join(dir, "ba"))
	if err != nil {
		t.Fatalf("listEntries: %v", err)
	}
	if got := entryNames(entries); len(got) != 2 || got[0] != "Backdrop.jpg" || got[1] != "banner.png" {
		t.Fatalf("entries = %v, want [Backdrop.jpg banner.png]", got)
	}
}

func TestListEntriesMissingDir(t *testing.T) {
	if _, err := listEntries(filepath.Join(t.TempDir(), "missing") + "/"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestPickerComplete(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "promo-a.png", "promo-b.png")

	p := newPicker()
	p.open(dir)
	p.setValue(filepath.Join(dir, "pr"))
	p.complete()
	if got, want := p.input.Value(), filepath.Join(dir, "promo-"); got != want {
		t.Fatalf("value = %q, want %q", got, want)
	}

	p.setValue(filepath.Join(dir, "promo-a"))
	p.complete()
	if got, want := p.input.Value(), filepath.Join(dir, "promo-a.png"); got != want {
		t.Fatalf("value = %q, want %q", got, want)
	}
}

func TestPickerEnterOpensFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "banner.png")

	m := newTestModel(t, Options{DropDir: dir})
	m = update(t, m, keyRunes("o"))
	if !m.pickerOpen {
		t.Fatal("picker did not open")
	}
	if len(m.picker.entries) != 1 {
		t.Fatalf("entries = %v, want banner.png", entryNames(m.picker.entries))
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.pickerOpen {
		t.Fatal("picker still open after choosing a file")
	}
	msg, ok := cmd().(fileMsg)
	if !ok || msg.err != nil || msg.via != intakeBrowse {
		t.Fatalf("open command = %+v, want browse intake of banner.png", msg)
	}
	m = update(t, m, msg)
	if m.panel.Media().File.Name != "banner.png" {
		t.Fatalf("media = %q, want banner.png", m.panel.Media().File.Name)
	}
}

func TestPickerTypingFilters(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "alpha.png", "beta.png")

	m := newTestModel(t, Options{DropDir: dir})
	m = update(t, m, keyRunes("o"))
	m = update(t, m, keyRunes("b"))
	if got := entryNames(m.picker.entries); len(got) != 1 || got[0] != "beta.png" {
		t.Fatalf("entries = %v, want [beta.png]", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.pickerOpen {
		t.Fatal("esc did not close the picker")
	}
}
