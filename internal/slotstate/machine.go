package slotstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/models"
)

var (
	// ErrNotConfirmed is returned when a change to a persisted slot was not confirmed
	ErrNotConfirmed = errors.New("change to a saved slot was not confirmed")
	// ErrSlotIndex is returned for an index outside the slot sequence
	ErrSlotIndex = errors.New("slot index out of range")
)

// Action names the user operation being confirmed
type Action string

const (
	ActionAssignJob Action = "assign_job"
	ActionPlan      Action = "plan"
	ActionDayOff    Action = "day_off"
	ActionClear     Action = "clear"
)

// Confirmer asks the user whether a saved slot may be changed
type Confirmer interface {
	Confirm(ctx context.Context, slot models.Slot, action Action) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(ctx context.Context, slot models.Slot, action Action) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, slot models.Slot, action Action) (bool, error) {
	return f(ctx, slot, action)
}

// AlwaysConfirm approves every change
var AlwaysConfirm = ConfirmFunc(func(context.Context, models.Slot, Action) (bool, error) {
	return true, nil
})

// RecordDeleter removes a persisted record from the timesheet service
type RecordDeleter interface {
	DeleteRecord(ctx context.Context, recordID int64) error
}

// Machine applies user operations to a slot sequence. Every operation
// returns a new sequence; the one passed in is left untouched.
type Machine struct {
	confirmer Confirmer
	deleter   RecordDeleter
}

// NewMachine creates a Machine. A nil confirmer refuses every change to a
// persisted slot.
func NewMachine(confirmer Confirmer, deleter RecordDeleter) *Machine {
	return &Machine{confirmer: confirmer, deleter: deleter}
}

// AssignJob assigns jobID to the slot at index
func (m *Machine) AssignJob(ctx context.Context, slots []models.Slot, index int, jobID int64, catalog models.Catalog) ([]models.Slot, error) {
	return m.apply(ctx, slots, index, ActionAssignJob, func(s models.Slot) models.Slot {
		return ApplyJob(s, jobID, catalog)
	})
}

// AssignPlanned marks the slot at index as planned work for jobID
func (m *Machine) AssignPlanned(ctx context.Context, slots []models.Slot, index int, jobID int64, catalog models.Catalog) ([]models.Slot, error) {
	return m.apply(ctx, slots, index, ActionPlan, func(s models.Slot) models.Slot {
		return ApplyPlanned(s, jobID, catalog)
	})
}

// MarkDayOff marks the slot at index as leave
func (m *Machine) MarkDayOff(ctx context.Context, slots []models.Slot, index int) ([]models.Slot, error) {
	return m.apply(ctx, slots, index, ActionDayOff, ApplyDayOff)
}

// Clear empties the slot at index. A persisted slot is only reset once the
// remote record has been deleted; if deletion fails the original sequence is
// returned together with the error.
func (m *Machine) Clear(ctx context.Context, slots []models.Slot, index int) ([]models.Slot, error) {
	if index < 0 || index >= len(slots) {
		return slots, fmt.Errorf("%w: %d", ErrSlotIndex, index)
	}

	slot := slots[index]
	if !slot.IsPersisted() {
		return replace(slots, index, Reset(slot)), nil
	}

	if err := m.confirm(ctx, slot, ActionClear); err != nil {
		return slots, err
	}
	if m.deleter == nil {
		return slots, fmt.Errorf("no record deleter configured")
	}

	if err := m.deleter.DeleteRecord(ctx, slot.ExistingRecordID); err != nil {
		logger.Warn("Failed to delete remote record", "id", slot.ExistingRecordID, "start", slot.StartTime, "error", err)
		return slots, fmt.Errorf("failed to delete record %d: %w", slot.ExistingRecordID, err)
	}

	logger.Info("Deleted remote record", "id", slot.ExistingRecordID, "start", slot.StartTime)
	return replace(slots, index, Reset(slot)), nil
}

func (m *Machine) apply(ctx context.Context, slots []models.Slot, index int, action Action, transition func(models.Slot) models.Slot) ([]models.Slot, error) {
	if index < 0 || index >= len(slots) {
		return slots, fmt.Errorf("%w: %d", ErrSlotIndex, index)
	}

	slot := slots[index]
	if RequiresConfirmation(slot) {
		if err := m.confirm(ctx, slot, action); err != nil {
			return slots, err
		}
	}

	return replace(slots, index, transition(slot)), nil
}

func (m *Machine) confirm(ctx context.Context, slot models.Slot, action Action) error {
	if m.confirmer == nil {
		return ErrNotConfirmed
	}
	ok, err := m.confirmer.Confirm(ctx, slot, action)
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return ErrNotConfirmed
	}
	return nil
}

func replace(slots []models.Slot, index int, slot models.Slot) []models.Slot {
	out := models.CloneSlots(slots)
	slot.Index = out[index].Index
	slot.StartTime = out[index].StartTime
	slot.EndTime = out[index].EndTime
	out[index] = slot
	return out
}
