package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/models"
)

// NewJobForm creates a picker over catalog. With allowNone the first option
// is job id 0, meaning no specific job.
func NewJobForm(fm *JobFormModel, title string, catalog models.Catalog, allowNone bool) *huh.Form {
	var options []huh.Option[int64]
	if allowNone {
		options = append(options, huh.NewOption(constants.LabelPlannedWork, int64(0)))
	}
	for _, job := range catalog {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d)", job.Name, job.ID), job.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title(title).
				Options(options...).
				Height(12).
				Value(&fm.JobID),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmationForm creates a yes/no prompt for fm.Message
func NewConfirmationForm(fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fm.Message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewDateForm creates the go-to-date prompt
func NewDateForm(fm *DateFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Go to date").
				Description("YYYY-MM-DD").
				Value(&fm.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
