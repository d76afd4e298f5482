package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/notekeeper/internal/events"
	"github.com/iudanet/notekeeper/internal/models"
)

// remoteEdit параметры прямой записи на сервер
type remoteEdit struct {
	editOptions
	expected int64
}

func (c *Cli) runRemoteGet(ctx context.Context, id string) error {
	note, err := c.remote.Get(ctx, id)
	if err != nil {
		return notFound(err, id)
	}
	return c.render(remoteNoteTemplate, note)
}

// runRemoteUpdate выполняет проверяемую запись; при конфликте показывает расхождения
func (c *Cli) runRemoteUpdate(ctx context.Context, id string, opts remoteEdit) error {
	fields, err := c.editFields(opts.editOptions)
	if err != nil {
		return err
	}

	note, err := c.remote.UpdateWithCheck(ctx, id, opts.expected, fields)
	if err != nil {
		var conflict *models.ConflictError
		if !errors.As(err, &conflict) {
			return fmt.Errorf("update failed: %w", notFound(err, id))
		}

		c.io.Printf("✗ %v\n", conflict)
		descriptor, derr := c.remote.DescribeConflict(ctx, id, opts.expected, fields)
		if derr != nil {
			return fmt.Errorf("failed to describe conflict: %w", derr)
		}
		if err := c.render(conflictTemplate, descriptor); err != nil {
			return err
		}
		c.io.Println()
		c.io.Printf("Retry with --expected %d or overwrite with 'notekeeper remote force %s'.\n", conflict.CurrentVersion, id)
		return err
	}

	c.io.Printf("✓ Updated %s to version %d\n", note.ID, note.Version)
	return nil
}

func (c *Cli) runRemoteForce(ctx context.Context, id string, opts editOptions) error {
	fields, err := c.editFields(opts)
	if err != nil {
		return err
	}

	note, err := c.remote.ForceUpdate(ctx, id, fields)
	if err != nil {
		return fmt.Errorf("force update failed: %w", notFound(err, id))
	}

	c.io.Printf("✓ Overwrote %s, now at version %d\n", note.ID, note.Version)
	return nil
}

func (c *Cli) runRemoteConflict(ctx context.Context, id string, opts remoteEdit) error {
	fields, err := c.editFields(opts.editOptions)
	if err != nil {
		return err
	}

	descriptor, err := c.remote.DescribeConflict(ctx, id, opts.expected, fields)
	if err != nil {
		return fmt.Errorf("failed to describe conflict: %w", notFound(err, id))
	}
	return c.render(conflictTemplate, descriptor)
}

// runWatch печатает события сервера до отмены контекста
func (c *Cli) runWatch(ctx context.Context, asJSON bool) error {
	c.io.Println("Watching server events (Ctrl+C to stop)...")

	return c.remote.Subscribe(ctx, func(ev events.Event) {
		if asJSON {
			line, err := json.Marshal(ev)
			if err != nil {
				return
			}
			c.io.Printf("%s\n", line)
			return
		}

		c.io.Printf("%s  %-16s %s", ev.At.Local().Format(time.TimeOnly), ev.Kind, ev.NoteID)
		if editor, ok := ev.Payload["editor"]; ok {
			c.io.Printf("  by %v", editor)
		}
		c.io.Println()
	})
}
