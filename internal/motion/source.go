package motion

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/logger"
)

// ErrSourceStarted is returned when Start is called on a running source
var ErrSourceStarted = errors.New("motion source already started")

// Source delivers accelerometer samples until it is stopped or runs dry
type Source interface {
	Start(ctx context.Context) (<-chan Sample, error)
	Stop() error
}

// ChannelSource is fed programmatically through Push
type ChannelSource struct {
	mu      sync.Mutex
	ch      chan Sample
	running bool
	stopped bool
	now     func() time.Time
}

// NewChannelSource creates a source whose buffer holds up to size pending samples
func NewChannelSource(size int) *ChannelSource {
	return &ChannelSource{ch: make(chan Sample, size), now: time.Now}
}

func (c *ChannelSource) Start(context.Context) (<-chan Sample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.stopped {
		return nil, ErrSourceStarted
	}
	c.running = true
	return c.ch, nil
}

// Push delivers a sample, stamping it with the current time when At is zero.
// It reports false when the source is stopped or its buffer is full.
func (c *ChannelSource) Push(s Sample) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	if s.At.IsZero() {
		s.At = c.now()
	}
	select {
	case c.ch <- s:
		return true
	default:
		return false
	}
}

// Running reports whether the source has been started and not yet stopped
func (c *ChannelSource) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && !c.stopped
}

// Stop closes the sample channel. Calling it more than once is harmless.
func (c *ChannelSource) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return nil
	}
	c.stopped = true
	close(c.ch)
	return nil
}

// ReplaySource plays back recorded samples, one "x,y,z" line each, paced by Interval.
// Blank lines and lines starting with '#' are skipped. Samples are stamped
// Interval apart, or MotionSampleInterval apart when Interval is not positive.
type ReplaySource struct {
	r        io.Reader
	Interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func NewReplaySource(r io.Reader, interval time.Duration) *ReplaySource {
	return &ReplaySource{r: r, Interval: interval}
}

func (s *ReplaySource) Start(ctx context.Context) (<-chan Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, ErrSourceStarted
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	out := make(chan Sample)
	lines := readLines(ctx, s.r)

	step := s.Interval
	if step <= 0 {
		step = constants.MotionSampleInterval
	}

	go func() {
		defer close(s.done)
		defer close(out)

		var ticker *time.Ticker
		if s.Interval > 0 {
			ticker = time.NewTicker(s.Interval)
			defer ticker.Stop()
		}

		at := time.Now()
		line := 0
		for {
			var text string
			select {
			case <-ctx.Done():
				return
			case l, ok := <-lines:
				if !ok {
					return
				}
				text = strings.TrimSpace(l)
			}
			line++
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			sample, err := parseSample(text)
			if err != nil {
				logger.Warn("Skipping malformed motion sample", "line", line, "error", err)
				continue
			}
			if ticker != nil {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
			// Timestamps advance by the replay step, not the wall clock
			at = at.Add(step)
			sample.At = at
			select {
			case <-ctx.Done():
				return
			case out <- sample:
			}
		}
	}()

	return out, nil
}

// readLines scans r on its own goroutine so a reader blocked on input never
// holds up Stop. The goroutine exits once r returns or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case lines <- scanner.Text():
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Warn("Motion replay ended early", "error", err)
		}
	}()
	return lines
}

// Stop halts playback and waits for the producer to exit. A reader still
// blocked on input is left to return on its own.
func (s *ReplaySource) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func parseSample(text string) (Sample, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 3 {
		return Sample{}, fmt.Errorf("expected 3 fields, got %d", len(parts))
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Sample{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return Sample{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
