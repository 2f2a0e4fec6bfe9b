package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/users"
)

// selectedUser returns the record under the cursor.
func (m Model) selectedUser() (users.User, bool) {
	list := m.store.Snapshot().Users
	if m.selected < 0 || m.selected >= len(list) {
		return users.User{}, false
	}
	return list[m.selected], true
}

// preserveSelection runs fn, which may reshape the list, and keeps the cursor
// on the same record by ID when it survives. Otherwise the cursor is clamped.
func (m *Model) preserveSelection(fn func()) {
	prev, had := m.selectedUser()
	fn()

	list := m.store.Snapshot().Users
	if had {
		for i, u := range list {
			if u.ID == prev.ID {
				m.selected = i
				return
			}
		}
	}
	if m.selected >= len(list) {
		m.selected = len(list) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// visibleRange returns the [start, end) slice of rows that fits in height
// while keeping the cursor on screen.
func visibleRange(count, selected, height int) (int, int) {
	if height <= 0 || count <= height {
		return 0, count
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	if start+height > count {
		start = count - height
	}
	return start, start + height
}

// renderList renders the user rows inside a bordered panel.
func (m Model) renderList(height int) string {
	styles := m.theme.Styles()
	snap := m.store.Snapshot()
	inner := max(m.width-2, 10)
	rowsHeight := max(height-3, 1) // title + borders

	var body string
	switch {
	case len(snap.Users) == 0 && snap.Loading:
		body = lipgloss.Place(inner, rowsHeight, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+styles.MutedText.Render("Loading users..."))
	case len(snap.Users) == 0:
		body = lipgloss.Place(inner, rowsHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No users. Press a to add one."))
	default:
		start, end := visibleRange(len(snap.Users), m.selected, rowsHeight)
		rows := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			rows = append(rows, m.renderRow(snap.Users[i], i == m.selected, snap.Editing && snap.EditID == snap.Users[i].ID, inner))
		}
		body = strings.Join(rows, "\n")
	}

	title := styles.AccentText.Bold(true).Render(fmt.Sprintf("Users (%d)", len(snap.Users)))
	panel := styles.Panel.
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(inner).
		Height(rowsHeight).
		Render(body)
	return " " + title + "\n" + panel
}

func (m Model) renderRow(u users.User, selected, editing bool, width int) string {
	styles := m.theme.Styles()

	if editing {
		hint := styles.FaintText.Render("  enter update · esc cancel")
		return styles.Editing.Width(width).Render(m.input.View() + hint)
	}

	idWidth := 5
	nameWidth := width - idWidth - 2
	emailWidth := 0
	if !m.hideEmail && width >= 50 {
		emailWidth = width * 2 / 5
		nameWidth -= emailWidth + 2
	}

	cols := []string{
		padRight(fmt.Sprintf("#%d", u.ID), idWidth),
		padRight(truncate(u.Name, nameWidth), nameWidth),
	}
	if emailWidth > 0 {
		cols = append(cols, padRight(truncate(u.Email, emailWidth), emailWidth))
	}
	line := strings.Join(cols, "  ")

	if selected {
		return styles.Selected.Width(width).Render(line)
	}
	return styles.Text.Width(width).Render(line)
}
