// Package reconcile overlays records persisted by the timesheet service onto
// a freshly generated slot grid.
package reconcile

import (
	"github.com/julianstephens/slotsheet/internal/constants"
	apperrors "github.com/julianstephens/slotsheet/internal/errors"
	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/models"
)

// Report summarizes how the records of a merge were consumed
type Report struct {
	Matched    int
	Dropped    int
	OtherDates int
}

// Merge returns a copy of slots with every record for targetDate applied to
// the slot starting at the record's time of day. Records that do not land on
// a slot boundary are dropped. When two records map to one slot the later one
// wins. The input slice is never modified.
func Merge(slots []models.Slot, records []models.RemoteRecord, targetDate string) ([]models.Slot, Report) {
	merged := models.CloneSlots(slots)
	report := Report{}

	byStart := make(map[string]int, len(merged))
	for i, slot := range merged {
		byStart[slot.StartTime] = i
	}

	for _, record := range records {
		if record.Date() != targetDate {
			report.OtherDates++
			continue
		}

		idx, ok := byStart[record.TimeOfDay()]
		if !ok {
			report.Dropped++
			logger.Debug("Dropping remote record",
				"id", record.ID, "start", record.StartTimestamp, "reason", apperrors.ErrValidationSkip)
			continue
		}

		merged[idx] = applyRecord(merged[idx], record)
		report.Matched++
	}

	return merged, report
}

func applyRecord(slot models.Slot, record models.RemoteRecord) models.Slot {
	slot.ExistingRecordID = record.ID

	switch record.StatusKind {
	case models.StatusDayOff:
		slot.IsDayOff = true
		slot.IsPlanned = false
		slot.JobID = 0
		slot.Description = constants.LabelDayOff
	case models.StatusPlanned:
		slot.IsPlanned = true
		slot.IsDayOff = false
		slot.JobID = record.JobID
		slot.Description = firstNonEmpty(record.JobName, constants.LabelPlannedWork)
	default:
		slot.IsDayOff = false
		slot.IsPlanned = false
		slot.JobID = record.JobID
		slot.Description = firstNonEmpty(record.Description, record.JobName, constants.LabelRoutineWork)
	}

	return slot
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
