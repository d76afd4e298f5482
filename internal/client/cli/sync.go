package cli

import (
	"context"
	"errors"
	"fmt"

	clientsync "github.com/iudanet/notekeeper/internal/client/sync"
)

type statusView struct {
	Status *clientsync.Status
	Online string
}

func (c *Cli) runSync(ctx context.Context) error {
	c.io.Println("=== Synchronization ===")
	c.io.Println()

	result, err := c.syncer.ForceSyncNow(ctx)
	if err != nil {
		if errors.Is(err, clientsync.ErrSyncInProgress) {
			c.io.Println("A sync cycle is already running, try again in a moment.")
			return nil
		}
		return fmt.Errorf("synchronization failed: %w", err)
	}

	if err := c.render(cycleTemplate, result); err != nil {
		return err
	}

	c.io.Println()
	switch {
	case result.Failed > 0:
		c.io.Println("⚠️  Some notes could not be synchronized; they stay pending and are retried on the next cycle.")
	case result.Conflicts > 0:
		c.io.Println("⚠️  Some edits were rejected by the version check and kept locally.")
	default:
		c.io.Println("✓ Synchronization completed")
	}
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	status, err := c.syncer.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sync status: %w", err)
	}

	view := statusView{Status: status}
	if r, ok := c.syncer.(onlineReporter); ok {
		view.Online = "offline"
		if r.IsOnline() {
			view.Online = "online"
		}
	}

	if err := c.render(statusTemplate, view); err != nil {
		return err
	}

	if status.LastResult != nil {
		c.io.Println()
		c.io.Println("Last cycle:")
		if err := c.render(cycleTemplate, status.LastResult); err != nil {
			return err
		}
	}

	c.io.Println()
	if pending := status.PendingSyncCount + status.PendingDeleteCount; pending > 0 {
		c.io.Printf("⚠️  Pending sync: %d note(s) waiting to be synchronized\n", pending)
	} else {
		c.io.Println("✓ All notes synchronized with server")
	}
	return nil
}
