package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/keyring"
	"github.com/julianstephens/slotsheet/internal/models"
	"github.com/julianstephens/slotsheet/internal/notifier"
	"github.com/julianstephens/slotsheet/internal/remote"
	"github.com/julianstephens/slotsheet/internal/scheduler"
	"github.com/julianstephens/slotsheet/internal/session"
	"github.com/julianstephens/slotsheet/internal/slotstate"
	"github.com/julianstephens/slotsheet/internal/storage"
)

// ErrNotSignedIn is returned by commands that need a timesheet session
var ErrNotSignedIn = fmt.Errorf("not signed in, run '%s login' first", constants.AppName)

type Context struct {
	Ctx   context.Context
	Store storage.Provider
	// BaseURL overrides the API base URL stored in settings
	BaseURL string
	Now     func() time.Time
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// baseURL resolves the API base URL: flag, then settings, then the default
func (c *Context) baseURL(settings models.Settings) string {
	switch {
	case c.BaseURL != "":
		return c.BaseURL
	case settings.BaseURL != "":
		return settings.BaseURL
	default:
		return constants.DefaultBaseURL
	}
}

// Client returns an API client signed in with the stored credentials
func (c *Context) Client(settings models.Settings) (*remote.Client, error) {
	creds, err := keyring.GetCredentials()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotSignedIn
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	return remote.NewClient(c.baseURL(settings), remote.WithCredentials(creds)), nil
}

// Session loads the store and builds a signed-in session from the stored settings
func (c *Context) Session(confirmer slotstate.Confirmer) (*session.Session, models.Settings, error) {
	if err := c.Store.Load(); err != nil {
		return nil, models.Settings{}, err
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	client, err := c.Client(settings)
	if err != nil {
		return nil, settings, err
	}

	cfg := session.Config{
		Remote:       client,
		Credentials:  client.Credentials(),
		Window:       scheduler.WindowFromSettings(settings),
		HistoryLimit: settings.HistoryLimit,
		Fallback:     remote.DefaultCatalog(),
		Cache:        c.Store,
		Journal:      c.Store,
		Confirmer:    confirmer,
	}
	if settings.NotificationsEnabled {
		cfg.Notifier = notifier.New()
	}
	return session.New(cfg), settings, nil
}

// ParseDate accepts YYYY-MM-DD, today, yesterday or tomorrow
func ParseDate(arg string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return now.Format(constants.DateFormat), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(constants.DateFormat), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(constants.DateFormat), nil
	}
	t, err := time.Parse(constants.DateFormat, strings.TrimSpace(arg))
	if err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD, today, yesterday or tomorrow", arg)
	}
	return t.Format(constants.DateFormat), nil
}

// confirmer asks on the terminal unless yes is set
func confirmer(yes bool) slotstate.Confirmer {
	if yes {
		return slotstate.AlwaysConfirm
	}
	return slotstate.ConfirmFunc(func(_ context.Context, slot models.Slot, action slotstate.Action) (bool, error) {
		return askConfirm(fmt.Sprintf("%s - %s is already saved. %s anyway?", slot.StartTime, slot.EndTime, actionVerb(action)))
	})
}

func askConfirm(message string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func actionVerb(action slotstate.Action) string {
	switch action {
	case slotstate.ActionClear:
		return "Delete it"
	case slotstate.ActionDayOff:
		return "Mark it as day off"
	case slotstate.ActionPlan:
		return "Plan it"
	default:
		return "Change it"
	}
}
