package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotsheet/internal/keyring"
	"github.com/julianstephens/slotsheet/internal/remote"
)

// LoginCmd signs in to the timesheet service and keeps the session in the OS keyring
type LoginCmd struct {
	Email    string `arg:"" optional:"" help:"Account email. Defaults to the last one used."`
	Password string `hidden:"" env:"SLOTSHEET_PASSWORD" help:"Account password. Prompted for when unset."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	email := strings.TrimSpace(c.Email)
	if email == "" {
		email = settings.LastEmail
	}
	password := c.Password
	if email == "" || password == "" {
		if err := promptLogin(&email, &password); err != nil {
			return err
		}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}

	client := remote.NewClient(ctx.baseURL(settings))
	creds, err := client.Login(ctx.context(), email, password)
	if err != nil {
		return err
	}
	if err := keyring.SetCredentials(creds); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}

	settings.LastEmail = creds.Email
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("✓ Signed in as %s\n", creds.DisplayName())
	return nil
}

func promptLogin(email, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(email).
				Validate(func(s string) error {
					if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
						return errors.New("enter a valid email")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}),
		),
	).Run()
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := keyring.DeleteCredentials(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("Not signed in.")
			return nil
		}
		return fmt.Errorf("failed to remove session from keyring: %w", err)
	}
	fmt.Println("✓ Signed out")
	return nil
}
