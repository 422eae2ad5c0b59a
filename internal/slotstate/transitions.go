// Package slotstate holds the transitions a slot can go through and the
// machine that applies them to a day's slot sequence.
package slotstate

import (
	"fmt"

	"github.com/julianstephens/slotsheet/internal/constants"
	apperrors "github.com/julianstephens/slotsheet/internal/errors"
	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/models"
)

// JobLabel is the description given to a slot assigned to job
func JobLabel(job models.JobDefinition) string {
	return fmt.Sprintf("Routine %s work", job.Name)
}

// ApplyJob assigns jobID to the slot and drops any other content.
// A job missing from the catalog is still assigned but leaves the description empty.
func ApplyJob(slot models.Slot, jobID int64, catalog models.Catalog) models.Slot {
	slot.JobID = jobID
	slot.IsDayOff = false
	slot.IsPlanned = false
	slot.ExistingRecordID = 0
	slot.Description = ""

	if job, ok := catalog.Find(jobID); ok {
		slot.Description = JobLabel(job)
	} else {
		logger.Warn("Assigning job outside the catalog", "job_id", jobID, "error", apperrors.ErrCatalogMiss)
	}
	return slot
}

// ApplyPlanned marks the slot as planned work for jobID
func ApplyPlanned(slot models.Slot, jobID int64, catalog models.Catalog) models.Slot {
	slot.IsPlanned = true
	slot.IsDayOff = false
	slot.JobID = jobID
	slot.ExistingRecordID = 0
	slot.Description = constants.LabelPlannedWork

	if job, ok := catalog.Find(jobID); ok {
		slot.Description = constants.PlanLabelPrefix + job.Name
	}
	return slot
}

// ApplyDayOff marks the slot as leave
func ApplyDayOff(slot models.Slot) models.Slot {
	slot.IsDayOff = true
	slot.IsPlanned = false
	slot.JobID = 0
	slot.ExistingRecordID = 0
	slot.Description = constants.LabelDayOff
	return slot
}

// Reset returns the slot to the empty state, keeping its position and times
func Reset(slot models.Slot) models.Slot {
	return models.Slot{
		Index:     slot.Index,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}
}

// RequiresConfirmation reports whether a user change to slot must be confirmed first
func RequiresConfirmation(slot models.Slot) bool {
	return slot.IsPersisted()
}
