package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain renders header, error block, list and command bar.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	errBlock := m.renderError()

	used := lipgloss.Height(header) + lipgloss.Height(footer)
	if errBlock != "" {
		used += lipgloss.Height(errBlock)
	}
	list := m.renderList(m.height - used)

	parts := []string{header}
	if errBlock != "" {
		parts = append(parts, errBlock)
	}
	parts = append(parts, list, footer)
	return strings.Join(parts, "\n")
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface))
	snap := m.store.Snapshot()

	parts := []string{styles.Logo.Render("roster")}
	if snap.Loading {
		parts = append(parts, bg.Render(m.spinner.View()+" ")+styles.WarningText.Inherit(bg).Render("Loading"))
	} else if !m.loadedAt.IsZero() {
		parts = append(parts, styles.SuccessText.Inherit(bg).Render("loaded "+m.loadedAt.Format("15:04:05")))
	}
	if snap.Editing {
		parts = append(parts, styles.AccentText.Inherit(bg).Render(fmt.Sprintf("editing #%d", snap.EditID)))
	}
	if m.baseURL != "" {
		parts = append(parts, styles.FaintText.Inherit(bg).Render(truncate(m.baseURL, 50)))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, bg.Render("  ")))
}

// renderError shows the current error message verbatim in a framed block.
func (m Model) renderError() string {
	msg := m.store.Snapshot().Error
	if msg == "" {
		return ""
	}
	styles := m.theme.Styles()
	width := max(m.width-4, 10) // border + padding
	body := styles.DangerText.Render("Error") + "\n" + wrapText(msg, width-2)
	return styles.ErrorBlock.Width(width).Render(body)
}

// renderFooter renders the command bar from the active key map.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var bar string
	if m.store.Snapshot().Editing {
		bar = m.help.View(editKeys{m.keys})
	} else {
		bar = m.help.View(m.keys)
	}
	return styles.Footer.Width(m.width).Render(bar)
}
