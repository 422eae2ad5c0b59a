package daygrid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/slotsheet/internal/models"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Italic(true)

	savedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	dayOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("111"))

	plannedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("177"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

// Model renders the slots of one day with a movable cursor
type Model struct {
	viewport viewport.Model
	slots    []models.Slot
	catalog  models.Catalog
	cursor   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.slots) == 0 {
		return emptyStyle.Render("No slots for this day.")
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetSlots replaces the rendered slots, keeping the cursor in range
func (m *Model) SetSlots(slots []models.Slot, catalog models.Catalog) {
	m.slots = slots
	m.catalog = catalog
	if m.cursor >= len(slots) {
		m.cursor = len(slots) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.Render()
}

// Cursor returns the index of the highlighted slot
func (m Model) Cursor() int {
	return m.cursor
}

// Selected returns the highlighted slot
func (m Model) Selected() (models.Slot, bool) {
	if m.cursor < 0 || m.cursor >= len(m.slots) {
		return models.Slot{}, false
	}
	return m.slots[m.cursor], true
}

func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.Render()
	}
}

func (m *Model) MoveDown() {
	if m.cursor < len(m.slots)-1 {
		m.cursor++
		m.Render()
	}
}

func (m *Model) Render() {
	var b strings.Builder
	for i, slot := range m.slots {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s %s %s\n",
			pointer,
			timeStyle.Render(slot.StartTime+" - "+slot.EndTime),
			Marker(slot),
			Label(slot, m.catalog),
		)
	}
	m.viewport.SetContent(b.String())

	// Keep the cursor row visible
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.viewport.Height > 0 && m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// Marker shows whether a slot is saved, waiting to be submitted or empty
func Marker(slot models.Slot) string {
	switch {
	case slot.IsPersisted():
		return savedStyle.Render("●")
	case slot.IsPending():
		return pendingStyle.Render("○")
	default:
		return emptyStyle.Render("·")
	}
}

// Label describes what a slot holds
func Label(slot models.Slot, catalog models.Catalog) string {
	switch slot.Kind() {
	case models.SlotKindDayOff:
		return dayOffStyle.Render(slot.Description)
	case models.SlotKindPlanned:
		return plannedStyle.Render(slot.Description)
	case models.SlotKindJob:
		text := slot.Description
		if text == "" {
			text = fmt.Sprintf("job %d", slot.JobID)
			if job, ok := catalog.Find(slot.JobID); ok {
				text = job.Name
			}
		}
		return labelStyle.Render(text)
	default:
		return emptyStyle.Render("empty")
	}
}
