package models

import "strings"

// StatusKind classifies a persisted remote record
type StatusKind string

const (
	StatusDayOff   StatusKind = "DayOff"
	StatusPlanned  StatusKind = "Planned"
	StatusOrdinary StatusKind = "Ordinary"
)

// ParseStatusKind maps a remote statusId onto a StatusKind.
// Anything that is not a day-off or a plan is ordinary work.
func ParseStatusKind(statusID string) StatusKind {
	switch statusID {
	case string(StatusDayOff):
		return StatusDayOff
	case string(StatusPlanned):
		return StatusPlanned
	default:
		return StatusOrdinary
	}
}

// RemoteRecord is a unit of work persisted by the timesheet service
type RemoteRecord struct {
	ID             int64      `json:"id"`
	StartTimestamp string     `json:"start_time"` // YYYY-MM-DDTHH:MM:SSZ
	EndTimestamp   string     `json:"end_time,omitempty"`
	StatusKind     StatusKind `json:"status_kind"`
	JobID          int64      `json:"job_id,omitempty"`
	Description    string     `json:"description,omitempty"`
	JobName        string     `json:"job_name,omitempty"`
	Hour           float64    `json:"hour,omitempty"`
}

// Date returns the YYYY-MM-DD component of the start timestamp
func (r RemoteRecord) Date() string {
	date, _, _ := strings.Cut(r.StartTimestamp, "T")
	return date
}

// TimeOfDay returns the HH:MM component of the start timestamp, or "" when the
// timestamp carries no time part.
func (r RemoteRecord) TimeOfDay() string {
	_, clock, ok := strings.Cut(r.StartTimestamp, "T")
	if !ok || len(clock) < 5 {
		return ""
	}
	return clock[:5]
}
