package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/devpreview/internal/logtail"
	"github.com/five82/devpreview/internal/media"
	"github.com/five82/devpreview/internal/state"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < 100

	parts := []string{bg.Render("devpreview", styles.Logo)}

	parts = append(parts, bg.Render(m.panel.SelectionLabel(), styles.Text))

	parts = append(parts,
		bg.Render("Scale:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d%%", m.panel.ScalePercent()), styles.Text))

	view := "Grid"
	if m.panel.View() == state.ViewStack {
		view = "Stack"
	}
	parts = append(parts,
		bg.Render("View:", styles.MutedText)+bg.Space()+bg.Render(view, styles.Text))

	parts = append(parts, m.mediaLabel(styles, bg, compact))

	if m.panel.Media().IsVideo() {
		if m.panel.Playing() {
			parts = append(parts, bg.Render("● Playing", styles.SuccessText))
		} else {
			parts = append(parts, bg.Render("Paused", styles.WarningText))
		}
	}

	if m.notice != "" {
		style := styles.InfoText
		switch m.noticeLevel {
		case logtail.LevelError:
			style = styles.DangerText
		case logtail.LevelWarn:
			style = styles.WarningText
		}
		limit := 60
		if compact {
			limit = 30
		}
		parts = append(parts, bg.Render(truncate(m.notice, limit), style))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxHeight(1).
		Render(bg.Join(parts, "  "))
}

// mediaLabel shows the loaded file name with a kind icon.
func (m Model) mediaLabel(styles Styles, bg BgStyle, compact bool) string {
	ref := m.panel.Media()
	if ref.IsZero() {
		return bg.Render("No media", styles.FaintText)
	}
	icon := "▣"
	if ref.Kind == media.KindVideo {
		icon = "▶"
	}
	limit := 40
	if compact {
		limit = 20
	}
	return bg.Render(icon, styles.AccentText) + bg.Space() +
		bg.Render(truncateMiddle(ref.File.Name, limit), styles.Text)
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	if m.panel.DropdownOpen() {
		commands = []cmd{
			{"j/k", "Move"},
			{"Space", "Toggle"},
			{"a", "All"},
			{"c", "None"},
			{"esc", "Close"},
		}
	} else {
		commands = []cmd{
			{"o", "Open"},
			{"d", "Devices"},
			{"+/-", "Scale"},
			{"g/s", "Grid/Stack"},
		}
		if m.panel.Media().IsVideo() {
			playLabel := "Play"
			if m.panel.Playing() {
				playLabel = "Pause"
			}
			commands = append(commands, cmd{"Space", playLabel}, cmd{"r", "Restart"})
		}
		if m.panel.HasMedia() {
			commands = append(commands, cmd{"x", "Clear"})
		}
		commands = append(commands, cmd{"L", "Log"}, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	if m.dropDir != "" && m.width >= 120 {
		segments = append(segments,
			bg.Render("drop folder", styles.FaintText)+bg.Space()+
				bg.Render(truncateMiddle(m.dropDir, 40), styles.MutedText))
	}

	line := ""
	for i, s := range segments {
		if i > 0 {
			line += sep
		}
		line += s
	}
	return bg.FillLine(line, m.width)
}
