package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	subtle = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(accent).
			Padding(0, 1).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(subtle).PaddingLeft(1)

	// submitStyle highlights the pending counter
	submitStyle = lipgloss.NewStyle().
			Foreground(accent).
			Border(lipgloss.RoundedBorder(), false, true).
			BorderForeground(accent).
			Padding(0, 1)

	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))

	docStyle = lipgloss.NewStyle().Margin(1, 2)
)
