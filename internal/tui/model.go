package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/session"
	"github.com/julianstephens/slotsheet/internal/tui/components/daygrid"
)

// JobFormModel backs the job picker
type JobFormModel struct {
	JobID int64
}

// ConfirmationFormModel backs the yes/no prompt shown before a pending action
type ConfirmationFormModel struct {
	Message   string
	Confirmed bool
}

// DateFormModel backs the go-to-date prompt
type DateFormModel struct {
	Date string
}

type Model struct {
	ctx              context.Context
	cancel           context.CancelFunc
	Session          *session.Session
	State            constants.SessionState
	Keys             KeyMap
	Help             help.Model
	Grid             daygrid.Model
	Spinner          spinner.Model
	Form             *huh.Form
	JobForm          *JobFormModel
	ConfirmationForm *ConfirmationFormModel
	DateForm         *DateFormModel
	PendingAction    func() tea.Cmd
	// FormSlot is the slot index the open job picker applies to
	FormSlot    int
	Busy        bool
	Status      string
	StatusError bool
	Shake       *shakeState
	Quitting    bool
	Width       int
	Height      int
	startDate   string
	now         func() time.Time
}

// NewModel creates the day editor. date is loaded by Init.
func NewModel(ctx context.Context, sess *session.Session, date string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	ctx, cancel := context.WithCancel(ctx)

	return Model{
		ctx:       ctx,
		cancel:    cancel,
		Session:   sess,
		State:     constants.StateDay,
		Keys:      DefaultKeyMap(),
		Help:      help.New(),
		Grid:      daygrid.New(0, 0),
		Spinner:   sp,
		Busy:      true,
		Status:    "Loading...",
		startDate: date,
		now:       time.Now,
	}
}

func (m Model) ShortHelp() []key.Binding {
	switch m.State {
	case constants.StateShake:
		return []key.Binding{m.Keys.Nudge, m.Keys.Cancel}
	case constants.StateDay:
		return []key.Binding{m.Keys.Assign, m.Keys.Clear, m.Keys.Fill, m.Keys.Submit, m.Keys.Quit, m.Keys.Help}
	}
	return []key.Binding{m.Keys.Cancel}
}

func (m Model) FullHelp() [][]key.Binding {
	if m.State != constants.StateDay {
		return [][]key.Binding{m.ShortHelp()}
	}
	return m.Keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.loadCmd(m.startDate))
}

// Run starts the editor on date and blocks until the user quits
func Run(ctx context.Context, sess *session.Session, date string) error {
	p := tea.NewProgram(NewModel(ctx, sess, date), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("day editor failed: %w", err)
	}
	return nil
}

// quit cancels everything still running under the model's context
func (m *Model) quit() tea.Cmd {
	if m.Shake != nil {
		m.Shake.stop()
	}
	m.cancel()
	m.Quitting = true
	return tea.Quit
}

func (m *Model) syncGrid() {
	m.Grid.SetSlots(m.Session.Slots(), m.Session.Catalog())
}

func (m *Model) setStatus(text string, isErr bool) {
	m.Status = text
	m.StatusError = isErr
}

func (m *Model) setError(err error) {
	m.setStatus(err.Error(), true)
}
