package cli

import (
	"fmt"
	"net/url"

	"github.com/julianstephens/slotsheet/internal/scheduler"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	DayStart             *string `help:"Start of the working day (HH:MM)."`
	DayEnd               *string `help:"End of the working day (HH:MM)."`
	BreakStart           *string `help:"Start of the break (HH:MM). Equal ends disable the break."`
	BreakEnd             *string `help:"End of the break (HH:MM)."`
	StepMin              *int    `help:"Slot length in minutes."`
	BaseURL              *string `name:"base-url" help:"Timesheet API base URL."`
	HistoryLimit         *int    `help:"Saved records fetched when loading a day."`
	NotificationsEnabled *bool   `help:"Send a tray notification after each submission."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Day Window:")
		fmt.Printf("  Day Start:             %s\n", settings.DayStart)
		fmt.Printf("  Day End:               %s\n", settings.DayEnd)
		fmt.Printf("  Break:                 %s - %s\n", settings.BreakStart, settings.BreakEnd)
		fmt.Printf("  Step:                  %d min\n", settings.StepMin)
		fmt.Println("\nTimesheet:")
		fmt.Printf("  Base URL:              %s\n", ctx.baseURL(settings))
		fmt.Printf("  History Limit:         %d\n", settings.HistoryLimit)
		fmt.Printf("  Last Email:            %s\n", settings.LastEmail)
		fmt.Println("\nNotifications:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		return nil
	}

	updated := false
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
			updated = true
		}
	}
	set(&settings.DayStart, c.DayStart)
	set(&settings.DayEnd, c.DayEnd)
	set(&settings.BreakStart, c.BreakStart)
	set(&settings.BreakEnd, c.BreakEnd)
	set(&settings.BaseURL, c.BaseURL)
	if c.StepMin != nil {
		settings.StepMin = *c.StepMin
		updated = true
	}
	if c.HistoryLimit != nil {
		if *c.HistoryLimit < 1 {
			return fmt.Errorf("history limit must be positive, got %d", *c.HistoryLimit)
		}
		settings.HistoryLimit = *c.HistoryLimit
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if settings.BaseURL != "" {
		if u, err := url.Parse(settings.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base URL %q", settings.BaseURL)
		}
	}
	slots, err := scheduler.GenerateSlots(scheduler.WindowFromSettings(settings))
	if err != nil {
		return fmt.Errorf("invalid day window: %w", err)
	}
	if len(slots) == 0 {
		return fmt.Errorf("day window %s-%s leaves no slots", settings.DayStart, settings.DayEnd)
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Printf("Settings updated. A day now has %d slot(s).\n", len(slots))
	return nil
}
