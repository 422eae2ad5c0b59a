package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/motion"
	"github.com/julianstephens/slotsheet/internal/slotstate"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.Grid.SetSize(msg.Width-4, max(msg.Height-8, 1))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case dayLoadedMsg:
		m.Busy = false
		m.syncGrid()
		switch {
		case msg.err != nil:
			m.setError(msg.err)
		case msg.catalogErr != nil:
			m.setError(msg.catalogErr)
		default:
			m.setStatus(fmt.Sprintf("Loaded %s: %d saved record(s)", m.Session.Date(), msg.report.Matched), false)
		}
		return m, nil

	case editedMsg:
		m.Busy = false
		m.syncGrid()
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus(msg.status, false)
		}
		return m, nil

	case submittedMsg:
		m.Busy = false
		m.State = constants.StateDay
		m.syncGrid()
		if msg.err != nil {
			m.setStatus(msg.result.Summary()+": "+msg.err.Error(), true)
		} else {
			m.setStatus(msg.result.Summary(), msg.result.FailureCount > 0)
		}
		return m, nil

	case shakeCountMsg:
		if m.Shake == nil {
			return m, nil
		}
		m.Shake.count = msg.count
		return m, waitForShake(m.Shake.events)

	case shakeDoneMsg:
		if m.Shake != nil {
			m.Shake.stop()
			m.Shake = nil
		}
		m.State = constants.StateDay
		m.syncGrid()
		switch {
		case msg.err != nil:
			m.setError(msg.err)
		case msg.outcome != motion.OutcomeFired:
			m.setStatus("Shake cancelled", false)
		case msg.result.NothingToFill:
			m.setStatus("Nothing to fill", false)
		default:
			m.setStatus(fmt.Sprintf("Filled %d of %d empty slot(s)", msg.result.Filled, msg.result.Empty), false)
		}
		return m, nil

	case busyMsg:
		m.Busy = true
		return m, nil

	case ConfirmationMsg:
		m.ConfirmationForm = &ConfirmationFormModel{Message: msg.Message}
		m.PendingAction = msg.Action
		m.Form = NewConfirmationForm(m.ConfirmationForm)
		m.State = constants.StateConfirmation
		return m, m.Form.Init()
	}

	switch m.State {
	case constants.StatePickJob, constants.StatePickPlan, constants.StateConfirmation, constants.StateDatePicker:
		return m.updateForm(msg)
	case constants.StateShake:
		return m.updateShake(msg)
	case constants.StateSubmitting:
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleDayKeys(msg)
	}

	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.PendingAction = nil
		m.State = constants.StateDay
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	cmds = append(cmds, cmd)

	switch m.Form.State {
	case huh.StateCompleted:
		state := m.State
		m.State = constants.StateDay
		cmds = append(cmds, m.completeForm(state))
	case huh.StateAborted:
		m.PendingAction = nil
		m.State = constants.StateDay
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) completeForm(state constants.SessionState) tea.Cmd {
	switch state {
	case constants.StateConfirmation:
		action := m.PendingAction
		m.PendingAction = nil
		if m.ConfirmationForm.Confirmed && action != nil {
			return action()
		}
		m.setStatus("Cancelled", false)
		return nil

	case constants.StatePickJob:
		index, jobID := m.FormSlot, m.JobForm.JobID
		return m.guarded(index, func() tea.Cmd {
			return m.editCmd("Job assigned", func(ctx context.Context) error {
				return m.Session.AssignJob(ctx, index, jobID)
			})
		})

	case constants.StatePickPlan:
		index, jobID := m.FormSlot, m.JobForm.JobID
		return m.guarded(index, func() tea.Cmd {
			return m.editCmd("Planned", func(ctx context.Context) error {
				return m.Session.AssignPlanned(ctx, index, jobID)
			})
		})

	case constants.StateDatePicker:
		date := strings.TrimSpace(m.DateForm.Date)
		return m.discardGuard(func() tea.Cmd {
			return busy(m.loadCmd(date))
		})
	}
	return nil
}

// guarded runs action directly unless the slot at index is already saved,
// in which case the user is asked first.
func (m *Model) guarded(index int, action func() tea.Cmd) tea.Cmd {
	slots := m.Session.Slots()
	if index < 0 || index >= len(slots) || !slotstate.RequiresConfirmation(slots[index]) {
		return action()
	}
	slot := slots[index]
	return confirm(fmt.Sprintf("%s - %s is already saved. Change it?", slot.StartTime, slot.EndTime), action)
}

// discardGuard asks before an action that drops unsubmitted edits
func (m *Model) discardGuard(action func() tea.Cmd) tea.Cmd {
	pending := m.Session.PendingCount()
	if pending == 0 {
		return action()
	}
	return confirm(fmt.Sprintf("Discard %d unsubmitted change(s)?", pending), action)
}

func (m Model) updateShake(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Shake == nil {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Nudge):
		m.Shake.nudge()
	case key.Matches(keyMsg, m.Keys.Cancel), key.Matches(keyMsg, m.Keys.Quit):
		m.Shake.stop()
	}
	return m, nil
}

func (m Model) handleDayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.Keys.Quit) {
		return m, m.quit()
	}
	if key.Matches(msg, m.Keys.Help) {
		m.Help.ShowAll = !m.Help.ShowAll
		return m, nil
	}
	if m.Busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Up):
		m.Grid.MoveUp()
	case key.Matches(msg, m.Keys.Down):
		m.Grid.MoveDown()

	case key.Matches(msg, m.Keys.PrevDay), key.Matches(msg, m.Keys.NextDay):
		days := -1
		if key.Matches(msg, m.Keys.NextDay) {
			days = 1
		}
		return m, m.discardGuard(func() tea.Cmd {
			return busy(m.shiftCmd(days))
		})

	case key.Matches(msg, m.Keys.Today):
		today := time.Now().Format(constants.DateFormat)
		return m, m.discardGuard(func() tea.Cmd {
			return busy(m.loadCmd(today))
		})

	case key.Matches(msg, m.Keys.Goto):
		m.DateForm = &DateFormModel{Date: m.Session.Date()}
		m.Form = NewDateForm(m.DateForm)
		m.State = constants.StateDatePicker
		return m, m.Form.Init()

	case key.Matches(msg, m.Keys.Refresh):
		return m, m.discardGuard(func() tea.Cmd {
			return busy(m.refreshCmd())
		})

	case key.Matches(msg, m.Keys.Assign), key.Matches(msg, m.Keys.Plan):
		slot, ok := m.Grid.Selected()
		if !ok {
			return m, nil
		}
		planning := key.Matches(msg, m.Keys.Plan)
		m.FormSlot = slot.Index
		m.JobForm = &JobFormModel{JobID: slot.JobID}
		if planning {
			m.Form = NewJobForm(m.JobForm, "Plan "+slot.StartTime, m.Session.Catalog(), true)
			m.State = constants.StatePickPlan
		} else {
			m.Form = NewJobForm(m.JobForm, "Job for "+slot.StartTime, m.Session.Catalog(), false)
			m.State = constants.StatePickJob
		}
		return m, m.Form.Init()

	case key.Matches(msg, m.Keys.DayOff):
		slot, ok := m.Grid.Selected()
		if !ok {
			return m, nil
		}
		index := slot.Index
		return m, m.guarded(index, func() tea.Cmd {
			return m.editCmd("Marked as day off", func(ctx context.Context) error {
				return m.Session.MarkDayOff(ctx, index)
			})
		})

	case key.Matches(msg, m.Keys.Clear):
		slot, ok := m.Grid.Selected()
		if !ok || slot.IsEmpty() {
			return m, nil
		}
		index := slot.Index
		clearSlot := func() tea.Cmd {
			return busy(m.editCmd("Slot cleared", func(ctx context.Context) error {
				return m.Session.Clear(ctx, index)
			}))
		}
		if slot.IsPersisted() {
			return m, confirm(fmt.Sprintf("Delete the saved record for %s - %s?", slot.StartTime, slot.EndTime), clearSlot)
		}
		return m, clearSlot()

	case key.Matches(msg, m.Keys.Fill):
		result, err := m.Session.AutoFill()
		m.syncGrid()
		switch {
		case err != nil:
			m.setError(err)
		case result.NothingToFill:
			m.setStatus("Nothing to fill", false)
		default:
			m.setStatus(fmt.Sprintf("Filled %d of %d empty slot(s)", result.Filled, result.Empty), false)
		}

	case key.Matches(msg, m.Keys.Shake):
		return m, m.startShake()

	case key.Matches(msg, m.Keys.Submit):
		if m.Session.PendingCount() == 0 {
			m.setStatus("Nothing to submit", false)
			return m, nil
		}
		m.Busy = true
		m.State = constants.StateSubmitting
		return m, tea.Batch(m.Spinner.Tick, m.submitCmd())
	}

	return m, nil
}
