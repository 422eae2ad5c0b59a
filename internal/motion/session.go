package motion

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/logger"
)

// Outcome is how a shake session ended
type Outcome int

const (
	OutcomeFired Outcome = iota
	OutcomeCancelled
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFired:
		return "fired"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Session watches a Source until Quota shakes have been counted.
// It is single use.
type Session struct {
	Source   Source
	Detector *Detector
	Quota    int
	// OnShake is called with the running count after every counted shake
	OnShake func(count int)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   bool
}

// NewSession creates a session over src with the default detector and quota
func NewSession(src Source) *Session {
	return &Session{
		Source:   src,
		Detector: NewDetector(),
		Quota:    constants.ShakeQuota,
	}
}

// Run blocks until the quota is reached, the session is cancelled or the
// source runs dry. The source is stopped on every path.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return OutcomeCancelled, nil
	}
	s.cancel = cancel
	s.mu.Unlock()

	samples, err := s.Source.Start(ctx)
	if err != nil {
		return OutcomeCancelled, fmt.Errorf("failed to start motion source: %w", err)
	}
	defer func() {
		if err := s.Source.Stop(); err != nil {
			logger.Warn("Failed to stop motion source", "error", err)
		}
	}()

	detector := s.Detector
	if detector == nil {
		detector = NewDetector()
	}
	quota := s.Quota
	if quota <= 0 {
		quota = constants.ShakeQuota
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			s.finish()
			logger.Debug("Shake session cancelled", "count", count)
			return OutcomeCancelled, nil
		case sample, ok := <-samples:
			if !ok {
				s.finish()
				logger.Debug("Motion source exhausted", "count", count)
				return OutcomeExhausted, nil
			}
			if ctx.Err() != nil {
				continue
			}
			event, shaken := detector.OnMotionSample(sample)
			if !shaken {
				continue
			}
			count++
			logger.Debug("Shake counted", "count", count, "magnitude", event.Magnitude)
			if s.OnShake != nil {
				s.OnShake(count)
			}
			if count >= quota {
				s.finish()
				return OutcomeFired, nil
			}
		}
	}
}

// Cancel ends a running session, or prevents a session that has not started
// from ever running.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) finish() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}
