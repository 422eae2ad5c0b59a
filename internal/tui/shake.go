package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/slotsheet/internal/autofill"
	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/motion"
)

// shakeState tracks a running shake-to-fill session. The keyboard stands in
// for the accelerometer: each nudge pushes one strong sample.
type shakeState struct {
	source *motion.ChannelSource
	cancel context.CancelFunc
	events chan int
	count  int
	now    func() time.Time
}

type shakeCountMsg struct {
	count int
}

type shakeDoneMsg struct {
	outcome motion.Outcome
	result  autofill.Result
	err     error
}

func (m *Model) startShake() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	st := &shakeState{
		source: motion.NewChannelSource(8),
		cancel: cancel,
		events: make(chan int, constants.ShakeQuota),
		now:    m.now,
	}
	m.Shake = st
	m.State = constants.StateShake

	sess := m.Session
	run := func() tea.Msg {
		defer close(st.events)
		outcome, result, err := sess.ShakeFill(ctx, st.source, func(n int) {
			select {
			case st.events <- n:
			default:
			}
		})
		return shakeDoneMsg{outcome: outcome, result: result, err: err}
	}
	return tea.Batch(run, waitForShake(st.events))
}

func waitForShake(events <-chan int) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-events
		if !ok {
			return nil
		}
		return shakeCountMsg{count: n}
	}
}

func (s *shakeState) nudge() {
	sample := motion.Sample{X: constants.ShakeThreshold * 1.5}
	if s.now != nil {
		sample.At = s.now()
	}
	s.source.Push(sample)
}

func (s *shakeState) stop() {
	s.cancel()
}
