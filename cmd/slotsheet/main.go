package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/slotsheet/internal/cli"
	"github.com/julianstephens/slotsheet/internal/constants"
	apperrors "github.com/julianstephens/slotsheet/internal/errors"
	"github.com/julianstephens/slotsheet/internal/keyring"
	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/storage"
	"github.com/julianstephens/slotsheet/internal/storage/postgres"
	"github.com/julianstephens/slotsheet/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. Passwords must NOT be embedded, use the OS keyring or .pgpass instead." env:"SLOTSHEET_CONFIG" default:"${defaultConfig}"`
	Debug   bool   `help:"Log debug output to stderr."`
	BaseURL string `name:"base-url" help:"Timesheet API base URL, overriding the stored setting." env:"SLOTSHEET_BASE_URL"`

	Init   cli.InitCmd   `cmd:"" help:"Initialize slotsheet storage."`
	Login  cli.LoginCmd  `cmd:"" help:"Sign in to the timesheet service."`
	Logout cli.LogoutCmd `cmd:"" help:"Forget the stored timesheet session."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive day editor." default:"withargs"`
	Day    cli.DayCmd    `cmd:"" help:"Show the slots of a day."`
	Jobs   cli.JobsCmd   `cmd:"" help:"List the job catalog."`
	Record cli.RecordCmd `cmd:"" help:"Edit slots and submit them."`
	Clear  cli.ClearCmd  `cmd:"" help:"Clear a slot, deleting its saved record."`
	Shake  cli.ShakeCmd  `cmd:"" help:"Auto-fill a day from recorded shake samples."`

	History  cli.HistoryCmd  `cmd:"" help:"Show the local submission journal for a day."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage application settings."`
	Migrate  cli.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Show what the OS keyring holds."`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Half-hour timesheet editor and submitter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"defaultConfig": constants.DefaultConfigPath,
		},
	)

	store, logDir, err := openStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logger.Debug("Starting", "version", constants.Version, "command", kctx.Command(), "store", store.GetConfigPath())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{
		Ctx:     ctx,
		Store:   store,
		BaseURL: CLI.BaseURL,
	}
	err = kctx.Run(appCtx)
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	apperrors.Fatal(err)
}

// openStore picks the storage backend. The default path defers to a
// connection string kept in the OS keyring.
func openStore(config string) (storage.Provider, string, error) {
	if config == constants.DefaultConfigPath {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			config = connStr
		}
	}

	if storage.IsPostgres(config) || strings.Contains(config, "host=") {
		if _, err := postgres.ValidateConnString(config); err != nil && !fromKeyring(config) {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, "", fmt.Errorf("%w, store it with '%s keyring set' or use .pgpass", err, constants.AppName)
			}
			return nil, "", err
		}
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get user config dir: %w", err)
		}
		return postgres.New(config), filepath.Join(dir, constants.AppName), nil
	}

	path, err := expandHome(config)
	if err != nil {
		return nil, "", err
	}
	return sqlite.NewStore(path), filepath.Dir(path), nil
}

// fromKeyring reports whether connStr is the one stored in the OS keyring,
// which may carry a password.
func fromKeyring(connStr string) bool {
	stored, err := keyring.GetConnectionString()
	return err == nil && stored == connStr
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
