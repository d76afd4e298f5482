package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runLogin(ctx context.Context, token string) error {
	if token == "" {
		var err error
		token, err = c.io.ReadSecret("Access token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}

	info, err := c.authService.Login(ctx, token)
	if err != nil {
		return err
	}

	c.io.Println("✓ Login successful!")
	c.io.Printf("Editor: %s\n", info.Editor)
	if !info.ExpiresAt.IsZero() {
		c.io.Printf("Token expires: %s\n", info.ExpiresAt.Local().Format(time.RFC3339))
	}
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		return err
	}

	c.io.Println("✓ Logged out, stored token removed")
	if c.token != "" {
		c.io.Println("Note: a token is still set in the config or NOTEKEEPER_TOKEN.")
	}
	return nil
}

func (c *Cli) runWhoami(ctx context.Context) error {
	info, err := c.authService.Current(ctx, c.token)
	if err != nil {
		return err
	}

	c.io.Printf("Editor: %s\n", info.Editor)
	if info.ExpiresAt.IsZero() {
		c.io.Println("Token expires: never")
		return nil
	}

	c.io.Printf("Token expires: %s\n", info.ExpiresAt.Local().Format(time.RFC3339))
	if remaining := time.Until(info.ExpiresAt); remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Token has expired. Please login again.")
	}
	return nil
}
