package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/devpreview/internal/preview"
)

// renderReference renders the device reference table. Selected devices are
// highlighted.
func (m Model) renderReference() string {
	styles := m.theme.Styles()
	catalog := m.panel.Catalog()
	ids := catalog.IDs()

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Bezel).
		Headers(preview.ReferenceHeader.Cells()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.AccentText.Bold(true).Padding(0, 1)
			case col == 0 && row < len(ids) && m.panel.IsSelected(ids[row]):
				return styles.SuccessText.Padding(0, 1)
			case col == 0:
				return styles.Text.Padding(0, 1)
			default:
				return styles.MutedText.Padding(0, 1)
			}
		})
	for _, r := range preview.Reference(catalog) {
		t.Row(r.Cells()...)
	}

	title := styles.Text.Bold(true).Render("Device Reference")
	return lipgloss.NewStyle().PaddingLeft(1).Render(title + "\n" + t.Render())
}
