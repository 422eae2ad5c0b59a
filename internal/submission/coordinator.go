// Package submission drains a day's pending slots to the timesheet service.
package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/models"
)

// JobSubmission is the payload for an ordinary unit of work
type JobSubmission struct {
	JobID       int64
	Description string
	Start       string // YYYY-MM-DDTHH:MM:SS
	End         string
	Hour        float64
	Piece       int
}

// Submitter is the remote side of a submission
type Submitter interface {
	SubmitJob(ctx context.Context, job JobSubmission) error
	SubmitPlanning(ctx context.Context, date, start, end string, jobID int64) error
	SubmitDayOff(ctx context.Context, date, start, end string) error
}

// Journal keeps a local record of every submission attempt
type Journal interface {
	RecordSubmission(entry models.SubmissionLogEntry) error
}

// Outcome is the result of submitting one slot
type Outcome struct {
	Slot models.Slot
	Kind models.SlotKind
	Err  error
}

// Result aggregates a batch. SuccessCount+FailureCount always equals the
// number of eligible slots.
type Result struct {
	BatchID         string
	SuccessCount    int
	FailureCount    int
	NothingToSubmit bool
	Outcomes        []Outcome
}

// Summary renders the counts for display
func (r Result) Summary() string {
	if r.NothingToSubmit {
		return "Nothing to submit"
	}
	if r.FailureCount == 0 {
		return fmt.Sprintf("%d submitted", r.SuccessCount)
	}
	return fmt.Sprintf("%d succeeded, %d failed", r.SuccessCount, r.FailureCount)
}

// Failed returns the outcomes that did not succeed
func (r Result) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

type Coordinator struct {
	submitter Submitter
	journal   Journal
	now       func() time.Time
}

type Option func(*Coordinator)

// WithJournal records every outcome in j
func WithJournal(j Journal) Option {
	return func(c *Coordinator) {
		c.journal = j
	}
}

// WithClock overrides the time source used for journal entries
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

func New(submitter Submitter, opts ...Option) *Coordinator {
	c := &Coordinator{submitter: submitter, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Eligible returns the slots that would be submitted, in index order
func Eligible(slots []models.Slot) []models.Slot {
	var out []models.Slot
	for _, s := range slots {
		if s.IsPending() {
			out = append(out, s)
		}
	}
	return out
}

// Submit sends every pending slot for date one at a time. A failed slot is
// counted and the batch moves on. The slots are never modified; callers
// rebuild the day from the service afterwards.
func (c *Coordinator) Submit(ctx context.Context, slots []models.Slot, catalog models.Catalog, date string) Result {
	eligible := Eligible(slots)
	if len(eligible) == 0 {
		logger.Info("Nothing to submit", "date", date)
		return Result{NothingToSubmit: true}
	}

	result := Result{BatchID: uuid.New().String()}
	logger.Info("Submitting slots", "date", date, "count", len(eligible), "batch", result.BatchID)

	for _, slot := range eligible {
		kind := slot.Kind()
		err := c.dispatch(ctx, slot, kind, catalog, date)

		if err != nil {
			result.FailureCount++
			logger.Warn("Slot submission failed", "date", date, "start", slot.StartTime, "kind", kind, "error", err)
		} else {
			result.SuccessCount++
			logger.Debug("Slot submitted", "date", date, "start", slot.StartTime, "kind", kind)
		}

		result.Outcomes = append(result.Outcomes, Outcome{Slot: slot, Kind: kind, Err: err})
		c.record(result.BatchID, date, slot, kind, err)
	}

	logger.Info("Submission finished", "date", date, "batch", result.BatchID,
		"succeeded", result.SuccessCount, "failed", result.FailureCount)
	return result
}

func (c *Coordinator) dispatch(ctx context.Context, slot models.Slot, kind models.SlotKind, catalog models.Catalog, date string) error {
	switch kind {
	case models.SlotKindDayOff:
		return c.submitter.SubmitDayOff(ctx, date, slot.StartTime, slot.EndTime)
	case models.SlotKindPlanned:
		return c.submitter.SubmitPlanning(ctx, date, slot.StartTime, slot.EndTime, slot.JobID)
	default:
		return c.submitter.SubmitJob(ctx, JobSubmission{
			JobID:       slot.JobID,
			Description: jobDescription(slot, catalog),
			Start:       timestamp(date, slot.StartTime),
			End:         timestamp(date, slot.EndTime),
			Hour:        constants.SlotHours,
			Piece:       0,
		})
	}
}

func (c *Coordinator) record(batchID, date string, slot models.Slot, kind models.SlotKind, err error) {
	if c.journal == nil {
		return
	}
	entry := models.SubmissionLogEntry{
		ID:          uuid.New().String(),
		BatchID:     batchID,
		Date:        date,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		Kind:        kind,
		JobID:       slot.JobID,
		Success:     err == nil,
		SubmittedAt: c.now(),
	}
	if err != nil {
		entry.Message = err.Error()
	}
	if jerr := c.journal.RecordSubmission(entry); jerr != nil {
		logger.Warn("Failed to record submission", "batch", batchID, "start", slot.StartTime, "error", jerr)
	}
}

func jobDescription(slot models.Slot, catalog models.Catalog) string {
	if slot.Description != "" {
		return slot.Description
	}
	if job, ok := catalog.Find(slot.JobID); ok {
		return "Routine " + job.Name
	}
	return constants.LabelRoutineWork
}

func timestamp(date, clock string) string {
	return date + "T" + clock + ":00"
}
