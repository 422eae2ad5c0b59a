package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/slotsheet/internal/reconcile"
	"github.com/julianstephens/slotsheet/internal/submission"
)

type dayLoadedMsg struct {
	report     reconcile.Report
	err        error
	catalogErr error
}

type editedMsg struct {
	status string
	err    error
}

type submittedMsg struct {
	result submission.Result
	err    error
}

type busyMsg struct{}

// ConfirmationMsg asks the user to confirm Action before it runs
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

func (m Model) loadCmd(date string) tea.Cmd {
	ctx, sess := m.ctx, m.Session
	return func() tea.Msg {
		var msg dayLoadedMsg
		if len(sess.Catalog()) == 0 {
			if _, err := sess.LoadCatalog(ctx); err != nil {
				msg.catalogErr = err
			}
		}
		msg.report, msg.err = sess.SelectDate(ctx, date)
		return msg
	}
}

func (m Model) shiftCmd(days int) tea.Cmd {
	ctx, sess := m.ctx, m.Session
	return func() tea.Msg {
		report, err := sess.ShiftDate(ctx, days)
		return dayLoadedMsg{report: report, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	ctx, sess := m.ctx, m.Session
	return func() tea.Msg {
		report, err := sess.Refresh(ctx)
		return dayLoadedMsg{report: report, err: err}
	}
}

func (m Model) editCmd(status string, op func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return editedMsg{status: status, err: op(ctx)}
	}
}

func (m Model) submitCmd() tea.Cmd {
	ctx, sess := m.ctx, m.Session
	return func() tea.Msg {
		result, err := sess.Submit(ctx)
		return submittedMsg{result: result, err: err}
	}
}

func confirm(message string, action func() tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return ConfirmationMsg{Message: message, Action: action}
	}
}

// busy marks the editor busy before cmd runs
func busy(cmd tea.Cmd) tea.Cmd {
	return tea.Sequence(func() tea.Msg { return busyMsg{} }, cmd)
}
