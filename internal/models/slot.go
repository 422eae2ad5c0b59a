package models

// SlotKind classifies what a slot currently holds
type SlotKind string

const (
	SlotKindEmpty   SlotKind = "empty"
	SlotKindJob     SlotKind = "job"
	SlotKindPlanned SlotKind = "planned"
	SlotKindDayOff  SlotKind = "day_off"
)

// Slot is one fixed-duration unit of a working day.
// JobID and ExistingRecordID use zero to mean "absent".
type Slot struct {
	Index            int    `json:"index"`
	StartTime        string `json:"start_time"` // HH:MM format
	EndTime          string `json:"end_time"`   // HH:MM format
	JobID            int64  `json:"job_id,omitempty"`
	Description      string `json:"description,omitempty"`
	IsDayOff         bool   `json:"is_day_off"`
	IsPlanned        bool   `json:"is_planned"`
	ExistingRecordID int64  `json:"existing_record_id,omitempty"`
}

// HasJob reports whether a job is assigned to the slot
func (s Slot) HasJob() bool {
	return s.JobID != 0
}

// IsPersisted reports whether a remote record already backs the slot
func (s Slot) IsPersisted() bool {
	return s.ExistingRecordID != 0
}

// IsEmpty reports whether the slot carries no content and no remote record
func (s Slot) IsEmpty() bool {
	return !s.HasJob() && !s.IsDayOff && !s.IsPlanned && !s.IsPersisted()
}

// IsPending reports whether the slot holds content that has not been submitted yet
func (s Slot) IsPending() bool {
	return (s.HasJob() || s.IsDayOff || s.IsPlanned) && !s.IsPersisted()
}

// Kind returns the active content of the slot. Day-off wins over planned,
// planned wins over a plain job, matching the submission dispatch order.
func (s Slot) Kind() SlotKind {
	switch {
	case s.IsDayOff:
		return SlotKindDayOff
	case s.IsPlanned:
		return SlotKindPlanned
	case s.HasJob():
		return SlotKindJob
	default:
		return SlotKindEmpty
	}
}

// CountPending returns the number of slots eligible for submission
func CountPending(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.IsPending() {
			n++
		}
	}
	return n
}

// CloneSlots returns a copy of the sequence that shares no backing array with the input
func CloneSlots(slots []Slot) []Slot {
	if slots == nil {
		return nil
	}
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}
