package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/slotsheet/internal/constants"
	"github.com/julianstephens/slotsheet/internal/keyring"
	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/models"
	"github.com/julianstephens/slotsheet/internal/notifier"
	"github.com/julianstephens/slotsheet/internal/storage/sqlite"
)

const remoteCheckTimeout = 10 * time.Second

type DoctorCmd struct{}

type check struct {
	name string
	// warn marks a check whose failure does not fail the run
	warn bool
	run  func() error
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	var settings models.Settings
	storeOK := false

	checks := []check{
		{name: "Database reachable", run: func() error {
			if err := checkStore(ctx); err != nil {
				return err
			}
			storeOK = true
			s, err := ctx.Store.GetSettings()
			if err != nil {
				return fmt.Errorf("failed to read settings: %w", err)
			}
			settings = s
			return nil
		}},
		{name: "Migrations complete", run: func() error {
			if !storeOK {
				return errSkipped
			}
			return checkMigrations(ctx)
		}},
		{name: "Backups present", warn: true, run: func() error {
			return checkBackups(ctx)
		}},
		{name: "OS keyring", run: func() error {
			if !keyring.IsAvailable() {
				return keyring.ErrKeyringUnavailable
			}
			return nil
		}},
		{name: "Signed in", run: func() error {
			creds, err := keyring.GetCredentials()
			if err != nil {
				if errors.Is(err, keyring.ErrNotFound) {
					return ErrNotSignedIn
				}
				return err
			}
			fmt.Printf("   as %s\n", creds.DisplayName())
			return nil
		}},
		{name: "Timesheet API", run: func() error {
			if !storeOK {
				return errSkipped
			}
			return checkRemote(ctx, settings)
		}},
		{name: "Tray notifications", warn: true, run: func() error {
			if !settings.NotificationsEnabled {
				return errSkipped
			}
			return notifier.CheckTray()
		}},
		{name: "Clock/timezone", run: checkClock},
	}

	hasError := false
	for _, c := range checks {
		err := c.run()
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED\n", c.name)
		case c.warn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if path := logger.Path(); path != "" {
		fmt.Printf("Log file: %s\n", path)
	}
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

var errSkipped = errors.New("skipped")

func checkStore(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return errors.New("database connection is nil")
		}
		var one int
		if err := db.QueryRow("SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkMigrations(ctx *Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errSkipped
	}
	st, err := m.MigrationStatus()
	if err != nil {
		return err
	}
	if !st.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d, run '%s migrate'", st.Current, st.Latest, constants.AppName)
	}
	return nil
}

func checkBackups(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return errSkipped
	}
	snapshots, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(snapshots) == 0 {
		return fmt.Errorf("no backups found, consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkRemote(ctx *Context, settings models.Settings) error {
	client, err := ctx.Client(settings)
	if err != nil {
		if errors.Is(err, ErrNotSignedIn) {
			return errSkipped
		}
		return err
	}
	c, cancel := context.WithTimeout(ctx.context(), remoteCheckTimeout)
	defer cancel()
	catalog, err := client.FetchJobCatalog(c)
	if err != nil {
		return err
	}
	fmt.Printf("   %s (%d jobs)\n", ctx.baseURL(settings), len(catalog))
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC, remote timestamps are converted to local time\n")
	}
	return nil
}
