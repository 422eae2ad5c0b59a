package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/slotsheet/internal/backup"
	"github.com/julianstephens/slotsheet/internal/migration"
)

// migrator is implemented by both storage backends
type migrator interface {
	Migrate(logFn func(string)) (int, error)
	MigrationStatus() (migration.Status, error)
}

type MigrateCmd struct {
	Status bool `help:"Show the schema version and pending migrations without applying them."`
}

func (c *MigrateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	m, ok := ctx.Store.(migrator)
	if !ok {
		return errors.New("storage backend does not support migrations")
	}

	st, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if c.Status {
		printMigrationStatus(st)
		return nil
	}
	if st.UpToDate() {
		fmt.Printf("Database schema is up to date (version %d)\n", st.Current)
		return nil
	}

	if mgr, err := backupManager(ctx); err == nil {
		path, err := mgr.Create()
		if err != nil && !errors.Is(err, backup.ErrNoDatabase) {
			return fmt.Errorf("failed to back up before migrating: %w", err)
		}
		if err == nil {
			fmt.Printf("✓ Backup created: %s\n", filepath.Base(path))
		}
	}

	applied, err := m.Migrate(func(msg string) { fmt.Fprintln(os.Stdout, msg) })
	if err != nil {
		return fmt.Errorf("migration failed after %d applied: %w", applied, err)
	}
	return nil
}

func printMigrationStatus(st migration.Status) {
	fmt.Printf("Schema version: %d (latest %d)\n", st.Current, st.Latest)
	if st.UpToDate() {
		fmt.Println("No pending migrations.")
		return
	}
	fmt.Printf("%d pending migration(s):\n", len(st.Pending))
	for _, m := range st.Pending {
		fmt.Printf("  %03d %s\n", m.Version, m.Name)
	}
}
