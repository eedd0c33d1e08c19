package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Dropdown geometry. The list opens directly below the header and the
// command bar.
const (
	dropdownTop   = 2  // screen row of the top border
	dropdownWidth = 44 // including borders
	// Rows above the first device: top border, actions, separator.
	dropdownLead = 3
)

// dropdownHeight is the rendered height: borders, actions, separator and one
// row per device.
func (m Model) dropdownHeight() int {
	return m.panel.Catalog().Len() + dropdownLead + 1
}

// openDropdown opens the device list and subscribes to mouse events so a
// press outside the list can close it.
func (m Model) openDropdown() (tea.Model, tea.Cmd) {
	m.panel.OpenDropdown()
	m.cursor = min(m.cursor, max(m.panel.Catalog().Len()-1, 0))
	m.resize()
	m.refresh()
	return m, tea.EnableMouseCellMotion
}

// closeDropdown closes the list and drops the mouse subscription.
func (m *Model) closeDropdown() tea.Cmd {
	if !m.panel.DropdownOpen() {
		return nil
	}
	m.panel.CloseDropdown()
	m.resize()
	return tea.DisableMouse
}

// closeDropdownForOverlay closes the device list before a modal takes over the
// screen. Rows under a modal must not take mouse presses.
func (m *Model) closeDropdownForOverlay() tea.Cmd {
	cmd := m.closeDropdown()
	if cmd != nil {
		m.refresh()
	}
	return cmd
}

// handleDropdownKey handles keys while the list is open. Keys it does not
// claim fall through to the global bindings.
func (m *Model) handleDropdownKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	ids := m.panel.Catalog().IDs()
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Devices):
		return true, m.closeDropdown()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(ids)-1 {
			m.cursor++
		}
		return true, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor >= 0 && m.cursor < len(ids) {
			m.panel.ToggleDevice(ids[m.cursor])
		}
		return true, nil

	case key.Matches(msg, m.keys.SelectAll):
		m.panel.SelectAll()
		return true, nil

	case key.Matches(msg, m.keys.ClearAll):
		m.panel.ClearAll()
		return true, nil
	}
	return false, nil
}

// handleMouse handles presses while the dropdown is open. Presses inside the
// list act on the row under the pointer. Presses anywhere else close it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.panel.DropdownOpen() || m.pickerOpen || m.showLogs || m.showHelp {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	ids := m.panel.Catalog().IDs()
	top, bottom := dropdownTop, dropdownTop+m.dropdownHeight()-1
	if msg.X < 0 || msg.X >= dropdownWidth || msg.Y < top || msg.Y > bottom {
		cmd := m.closeDropdown()
		m.refresh()
		return m, cmd
	}

	row := msg.Y - top
	switch {
	case row == 1:
		if msg.X < dropdownWidth/2 {
			m.panel.SelectAll()
		} else {
			m.panel.ClearAll()
		}
	case row >= dropdownLead && row-dropdownLead < len(ids):
		m.cursor = row - dropdownLead
		m.panel.ToggleDevice(ids[m.cursor])
	default:
		// Borders and the separator.
		return m, nil
	}
	m.refresh()
	return m, nil
}

// renderDropdown renders the device checklist.
func (m Model) renderDropdown() string {
	styles := m.theme.Styles()
	inner := dropdownWidth - 2

	border := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BorderFocus))
	edge := border.Render("│")

	half := inner / 2
	actions := lipgloss.PlaceHorizontal(half, lipgloss.Center, styles.AccentText.Render("Select All")) +
		lipgloss.PlaceHorizontal(inner-half, lipgloss.Center, styles.MutedText.Render("Clear All"))

	lines := []string{
		border.Render("╭" + strings.Repeat("─", inner) + "╮"),
		edge + actions + edge,
		border.Render("├" + strings.Repeat("─", inner) + "┤"),
	}

	for i, d := range m.panel.Catalog().All() {
		mark := "[ ]"
		markStyle := styles.FaintText
		if m.panel.IsSelected(d.ID) {
			mark = "[x]"
			markStyle = styles.SuccessText
		}
		label := truncate(d.Name, inner-14)
		res := styles.MutedText.Render(d.Resolution())
		text := " " + markStyle.Render(mark) + " " + styles.Text.Render(label)
		pad := inner - lipgloss.Width(text) - lipgloss.Width(res) - 1
		row := text + strings.Repeat(" ", max(pad, 1)) + res + " "
		if i == m.cursor {
			row = styles.Cursor.Width(inner).Render(row)
		} else {
			row = lipgloss.NewStyle().Width(inner).MaxWidth(inner).Render(row)
		}
		lines = append(lines, edge+row+edge)
	}

	lines = append(lines, border.Render("╰"+strings.Repeat("─", inner)+"╯"))
	return strings.Join(lines, "\n")
}
