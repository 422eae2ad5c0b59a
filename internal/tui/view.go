package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/slotsheet/internal/constants"
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var content string
	switch m.State {
	case constants.StatePickJob, constants.StatePickPlan, constants.StateConfirmation, constants.StateDatePicker:
		content = docStyle.Render(m.Form.View())
	case constants.StateShake:
		content = m.viewShake()
	case constants.StateSubmitting:
		content = m.viewSubmitting()
	default:
		content = docStyle.Render(m.Grid.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.Help.View(m),
	)
}

func (m Model) viewHeader() string {
	date := m.Session.Date()
	if date == "" {
		date = m.startDate
	}
	parts := []string{headerStyle.Render(constants.AppName + " " + date)}

	if name := m.Session.Credentials().DisplayName(); name != "" {
		parts = append(parts, mutedStyle.Render(name))
	}
	if src := m.Session.CatalogSource(); src != "" {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("%d jobs (%s)", len(m.Session.Catalog()), src)))
	}
	parts = append(parts, submitStyle.Render(fmt.Sprintf("Submit (%d)", m.Session.PendingCount())))

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewStatus() string {
	if m.Busy && m.State != constants.StateSubmitting {
		return mutedStyle.Render(m.Spinner.View() + " working...")
	}
	if m.Status == "" {
		return ""
	}
	if m.StatusError {
		return mutedStyle.Render(dangerStyle.Render(m.Status))
	}
	return mutedStyle.Render(successStyle.Render(m.Status))
}

func (m Model) viewShake() string {
	count := 0
	if m.Shake != nil {
		count = m.Shake.count
	}
	bar := strings.Repeat("●", count) + strings.Repeat("○", max(constants.ShakeQuota-count, 0))

	return lipgloss.Place(m.Width, max(m.Height-4, 1),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			"Shake to fill the empty slots",
			"",
			bar,
			"",
			warningStyle.Render("[space] shake   [esc] cancel"),
		),
	)
}

func (m Model) viewSubmitting() string {
	return lipgloss.Place(m.Width, max(m.Height-4, 1),
		lipgloss.Center, lipgloss.Center,
		fmt.Sprintf("%s Submitting %d slot(s)...", m.Spinner.View(), m.Session.PendingCount()),
	)
}
