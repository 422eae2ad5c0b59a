package scheduler

import (
	"fmt"
	"time"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/models"
)

// DayWindow describes the working hours a day's slot grid is cut from.
// All times are HH:MM. An empty or zero-length break disables break exclusion.
type DayWindow struct {
	Start      string
	End        string
	BreakStart string
	BreakEnd   string
	StepMin    int
}

// DefaultWindow returns the standard 08:30-17:30 day with a 12:30-13:30 break
func DefaultWindow() DayWindow {
	return DayWindow{
		Start:      constants.DefaultDayStart,
		End:        constants.DefaultDayEnd,
		BreakStart: constants.DefaultBreakStart,
		BreakEnd:   constants.DefaultBreakEnd,
		StepMin:    constants.DefaultStepMin,
	}
}

// WindowFromSettings builds a DayWindow from stored settings, falling back to
// defaults for anything missing.
func WindowFromSettings(settings models.Settings) DayWindow {
	models.ApplyDefaultSettings(&settings)
	return DayWindow{
		Start:      settings.DayStart,
		End:        settings.DayEnd,
		BreakStart: settings.BreakStart,
		BreakEnd:   settings.BreakEnd,
		StepMin:    settings.StepMin,
	}
}

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// GenerateDay builds the empty slot grid for the given date
func (s *Scheduler) GenerateDay(date string, w DayWindow) (models.Day, error) {
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return models.Day{}, fmt.Errorf("invalid date format: %w", err)
	}
	slots, err := GenerateSlots(w)
	if err != nil {
		return models.Day{}, err
	}
	return models.Day{Date: date, Slots: slots}, nil
}

// GenerateSlots walks the window in StepMin increments and emits one empty
// slot per step. Steps starting inside [BreakStart, BreakEnd) are skipped, as
// are trailing steps that would run past End. The result depends only on w.
func GenerateSlots(w DayWindow) ([]models.Slot, error) {
	if w.StepMin <= 0 {
		return nil, fmt.Errorf("invalid step: %d minutes", w.StepMin)
	}

	dayStart, err := parseTime(w.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid day start time: %w", err)
	}
	dayEnd, err := parseTime(w.End)
	if err != nil {
		return nil, fmt.Errorf("invalid day end time: %w", err)
	}

	brk, err := parseBreak(w.BreakStart, w.BreakEnd)
	if err != nil {
		return nil, err
	}

	slots := []models.Slot{}
	for current := dayStart; current+w.StepMin <= dayEnd; current += w.StepMin {
		if brk.contains(current) {
			continue
		}
		slots = append(slots, models.Slot{
			Index:     len(slots),
			StartTime: formatTime(current),
			EndTime:   formatTime(current + w.StepMin),
		})
	}

	return slots, nil
}

type timeBlock struct {
	start int // minutes from midnight
	end   int // minutes from midnight
}

func (b timeBlock) contains(minute int) bool {
	return minute >= b.start && minute < b.end
}

func parseBreak(start, end string) (timeBlock, error) {
	if start == "" && end == "" {
		return timeBlock{}, nil
	}
	s, err := parseTime(start)
	if err != nil {
		return timeBlock{}, fmt.Errorf("invalid break start time: %w", err)
	}
	e, err := parseTime(end)
	if err != nil {
		return timeBlock{}, fmt.Errorf("invalid break end time: %w", err)
	}
	return timeBlock{start: s, end: e}, nil
}

func parseTime(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatTime(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60
	return fmt.Sprintf("%02d:%02d", hours, mins)
}
