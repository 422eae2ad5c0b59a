package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/slotsheet/internal/backup"
	"github.com/julianstephens/slotsheet/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Start over with an empty database. The old one is backed up first."`
}

func (c *InitCmd) Run(ctx *Context) error {
	path := ctx.Store.GetConfigPath()
	if c.Force && !storage.IsPostgres(path) {
		if _, err := os.Stat(path); err == nil {
			snapshot, err := backup.NewManager(path).Create()
			if err != nil {
				return fmt.Errorf("failed to back up existing database: %w", err)
			}
			fmt.Printf("✓ Backed up existing database to %s\n", filepath.Base(snapshot))
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove existing database: %w", err)
			}
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized slotsheet storage at: %s\n", path)
	return nil
}
