package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Media",
			items: []helpItem{
				{"o", "Open image or video"},
				{"drag/paste", "Load a dropped file path"},
				{"x", "Clear media"},
				{"Space", "Play/pause videos"},
				{"r", "Restart videos"},
			},
		},
		{
			title: "Devices",
			items: []helpItem{
				{"d", "Device list"},
				{"j/k", "Move in list"},
				{"Space", "Toggle device"},
				{"a/c", "Select all/none"},
				{"esc", "Close list"},
			},
		},
		{
			title: "Layout",
			items: []helpItem{
				{"+/-", "Scale up/down"},
				{"g/s", "Grid/stack view"},
				{"j/k", "Scroll preview"},
				{"ctrl+d/u", "Page down/up"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"L", "Diagnostics log"},
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(44)

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

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
