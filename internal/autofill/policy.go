// Package autofill assigns random catalog jobs to a random share of a day's
// empty slots.
package autofill

import (
	"errors"
	"math"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/models"
	"github.com/julianstephens/slotsheet/internal/slotstate"
)

// ErrEmptyCatalog is returned when there are empty slots but no jobs to draw from
var ErrEmptyCatalog = errors.New("job catalog is empty")

// RandSource is the randomness the policy draws from. *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Result describes one fill
type Result struct {
	Empty         int
	MinCount      int
	MaxCount      int
	Filled        int
	NothingToFill bool
	Indexes       []int
}

type Policy struct {
	rng      RandSource
	minRatio float64
	maxRatio float64
}

func New(rng RandSource) *Policy {
	return &Policy{
		rng:      rng,
		minRatio: constants.FillMinRatio,
		maxRatio: constants.FillMaxRatio,
	}
}

// Bounds returns the inclusive range of slots a fill over empty slots may assign
func (p *Policy) Bounds(empty int) (int, int) {
	if empty <= 0 {
		return 0, 0
	}
	return ceilRatio(p.minRatio, empty), ceilRatio(p.maxRatio, empty)
}

// Fill draws a count between the policy bounds, picks that many distinct
// empty slots and assigns each a job drawn from catalog with replacement.
// The input slice is never modified.
func (p *Policy) Fill(slots []models.Slot, catalog models.Catalog) ([]models.Slot, Result, error) {
	var empty []int
	for i, slot := range slots {
		if slot.IsEmpty() {
			empty = append(empty, i)
		}
	}

	if len(empty) == 0 {
		return models.CloneSlots(slots), Result{NothingToFill: true}, nil
	}
	if len(catalog) == 0 {
		return models.CloneSlots(slots), Result{Empty: len(empty)}, ErrEmptyCatalog
	}

	minCount, maxCount := p.Bounds(len(empty))
	count := minCount + p.rng.Intn(maxCount-minCount+1)

	p.rng.Shuffle(len(empty), func(i, j int) {
		empty[i], empty[j] = empty[j], empty[i]
	})
	chosen := empty[:count]

	out := models.CloneSlots(slots)
	for _, idx := range chosen {
		job := catalog[p.rng.Intn(len(catalog))]
		out[idx] = slotstate.ApplyJob(out[idx], job.ID, catalog)
	}

	logger.Info("Auto-filled empty slots", "empty", len(empty), "filled", count, "min", minCount, "max", maxCount)

	return out, Result{
		Empty:    len(empty),
		MinCount: minCount,
		MaxCount: maxCount,
		Filled:   count,
		Indexes:  append([]int(nil), chosen...),
	}, nil
}

func ceilRatio(ratio float64, n int) int {
	// Rounded first so 0.4*5 does not land on 2.0000000000000004 and ceil to 3
	v := math.Round(ratio*float64(n)*1e9) / 1e9
	return int(math.Ceil(v))
}
