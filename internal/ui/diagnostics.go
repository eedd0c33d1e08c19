package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/devpreview/internal/logtail"
)

// logFetchLimit caps how many trailing log lines the overlay shows.
const logFetchLimit = 200

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		lines, err := logtail.Read(path, logFetchLimit)
		if err != nil {
			return logsMsg{err: err}
		}
		return logsMsg{entries: logtail.ParseAll(lines)}
	}
}

// handleLogs fills the diagnostics viewport and scrolls to the newest line.
func (m *Model) handleLogs(msg logsMsg) {
	styles := m.theme.Styles()
	switch {
	case msg.err != nil:
		m.logView.SetContent(styles.DangerText.Render("Could not read log: " + msg.err.Error()))
	case len(msg.entries) == 0:
		m.logView.SetContent(styles.MutedText.Render("No log entries yet"))
	default:
		lines := make([]string, len(msg.entries))
		for i, e := range msg.entries {
			lines[i] = m.formatEntry(e)
		}
		m.logView.SetContent(strings.Join(lines, "\n"))
	}
	m.logView.GotoBottom()
}

// formatEntry renders "15:04:05 LEVEL [component] – message".
func (m Model) formatEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	width := max(m.logView.Width, 20)

	var levelStyle lipgloss.Style
	switch e.Level {
	case logtail.LevelError:
		levelStyle = styles.DangerText
	case logtail.LevelWarn:
		levelStyle = styles.WarningText
	default:
		levelStyle = styles.InfoText
	}

	parts := make([]string, 0, 4)
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.In(time.Local).Format("15:04:05")))
	}
	parts = append(parts, levelStyle.Render(fmt.Sprintf("%-5s", e.Level)))
	if e.Component != "" {
		parts = append(parts, styles.AccentText.Render("["+e.Component+"]"))
	}
	header := strings.Join(parts, " ")
	room := width - lipgloss.Width(header) - 3
	return header + " – " + styles.Text.Render(truncate(e.Message, max(room, 10)))
}

// handleLogsKey handles input while the diagnostics overlay is shown.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Diagnostics), key.Matches(msg, m.keys.Quit):
		m.showLogs = false
	case key.Matches(msg, m.keys.Down):
		m.logView.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logView.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		m.logView.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logView.PageUp()
	case msg.String() == "G":
		m.logView.GotoBottom()
	case msg.String() == "g":
		m.logView.GotoTop()
	case msg.String() == "R":
		return m, readLogsCmd(m.logFile)
	}
	return m, nil
}

// modalWidth sizes overlays to the terminal with a sane ceiling.
func (m Model) modalWidth() int {
	return max(min(m.width-4, 100), 30)
}

// renderDiagnostics renders the log overlay.
func (m Model) renderDiagnostics() string {
	styles := m.theme.Styles()
	width := m.modalWidth()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Diagnostics"))
	if m.logFile != "" {
		b.WriteString("  ")
		b.WriteString(styles.FaintText.Render(truncateMiddle(m.logFile, width-20)))
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", width-6)))
	b.WriteString("\n")
	b.WriteString(m.logView.View())
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("j/k scroll · g/G top/bottom · R reload · esc close"))

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
