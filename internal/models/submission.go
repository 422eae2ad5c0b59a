package models

import "time"

// SubmissionLogEntry is one per-slot outcome recorded in the local journal
type SubmissionLogEntry struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batch_id"`
	Date        string    `json:"date"` // YYYY-MM-DD format
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Kind        SlotKind  `json:"kind"`
	JobID       int64     `json:"job_id,omitempty"`
	Success     bool      `json:"success"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
