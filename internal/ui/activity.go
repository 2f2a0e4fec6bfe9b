package ui

import (
	"strings"
)

// renderActivity shows the tail of roster's own log file.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	width := max(m.width-10, 20)
	rows := max(m.height-8, 1)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Activity"))
	b.WriteString("\n\n")

	switch {
	case m.logFile == "":
		b.WriteString(styles.MutedText.Render("Logging is disabled (no log_file configured)."))
	case m.activity == nil:
		b.WriteString(styles.MutedText.Render("Reading " + m.logFile + "..."))
	case len(m.activity) == 0:
		b.WriteString(styles.MutedText.Render("No activity yet."))
	default:
		lines := m.activity
		if len(lines) > rows {
			lines = lines[len(lines)-rows:]
		}
		for i, line := range lines {
			b.WriteString(styles.Text.Render(truncate(line, width-6)))
			if i < len(lines)-1 {
				b.WriteString("\n")
			}
		}
	}

	return m.renderModal(b.String(), width)
}
