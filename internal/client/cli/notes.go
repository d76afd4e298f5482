package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/notekeeper/internal/models"
)

// addOptions параметры команды add
type addOptions struct {
	title    string
	body     string
	tags     []string
	autoSync bool
}

// editOptions параметры команды edit; nil означает "не менять"
type editOptions struct {
	title     *string
	body      *string
	tags      []string
	clearTags bool
}

// listOptions фильтры команды list
type listOptions struct {
	tag   string
	query string
}

type noteView struct {
	Note *models.LocalNote
	Tags []string
	HTML bool
}

// readBody читает тело заметки из stdin, когда передан "-"
func (c *Cli) readBody(body string) (string, error) {
	if body != "-" {
		return body, nil
	}
	text, err := c.io.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return strings.TrimRight(text, "\n"), nil
}

// editFields собирает частичный набор полей из флагов
func (c *Cli) editFields(opts editOptions) (models.NoteFields, error) {
	fields := models.NoteFields{Title: opts.title}
	if opts.body != nil {
		body, err := c.readBody(*opts.body)
		if err != nil {
			return fields, err
		}
		fields.Body = &body
	}
	switch {
	case opts.clearTags:
		fields.Tags = []string{}
	case len(opts.tags) > 0:
		fields.Tags = splitTags(opts.tags)
	}
	if fields.IsEmpty() {
		return fields, fmt.Errorf("nothing to change: use --title, --body, --tag or --clear-tags")
	}
	return fields, nil
}

func (c *Cli) runAdd(ctx context.Context, opts addOptions) error {
	title := strings.TrimSpace(opts.title)
	if title == "" {
		var err error
		title, err = c.io.ReadInput("Title: ")
		if err != nil {
			return fmt.Errorf("failed to read title: %w", err)
		}
	}

	body, err := c.readBody(opts.body)
	if err != nil {
		return err
	}

	note, err := c.dataService.CreateLocal(ctx, title, body, splitTags(opts.tags))
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	c.io.Println("✓ Note added")
	c.io.Printf("ID:    %s\n", note.LocalID)
	c.io.Printf("Title: %s\n", note.Title)

	if opts.autoSync {
		c.io.Println()
		return c.runSync(ctx)
	}

	c.io.Println("Note: stored locally. Run 'notekeeper sync' or keep 'notekeeper daemon' running to sync with server.")
	return nil
}

func (c *Cli) runEdit(ctx context.Context, localID string, opts editOptions) error {
	fields, err := c.editFields(opts)
	if err != nil {
		return err
	}

	note, err := c.dataService.UpdateLocal(ctx, localID, fields)
	if err != nil {
		return fmt.Errorf("failed to edit note: %w", notFound(err, localID))
	}

	c.io.Println("✓ Note updated")
	c.io.Printf("ID:     %s\n", note.LocalID)
	c.io.Printf("Status: %s\n", note.SyncStatus)
	return nil
}

func (c *Cli) runRemove(ctx context.Context, localID string, force bool) error {
	note, err := c.dataService.GetLocal(ctx, localID)
	if err != nil {
		return notFound(err, localID)
	}

	if !force {
		c.io.Printf("About to delete: %s\n", note.Title)
		confirm, err := c.io.ReadInput("Are you sure? (yes/no): ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if confirm != "yes" && confirm != "y" {
			c.io.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := c.dataService.DeleteLocal(ctx, localID); err != nil {
		return fmt.Errorf("failed to delete note: %w", notFound(err, localID))
	}

	c.io.Println("✓ Note deleted")
	if note.HasRemote() {
		c.io.Println("Note: the deletion reaches the server on the next sync.")
	}
	return nil
}

func (c *Cli) runShow(ctx context.Context, localID string, html bool) error {
	note, err := c.dataService.GetLocal(ctx, localID)
	if err != nil {
		return notFound(err, localID)
	}

	return c.render(noteTemplate, noteView{Note: note, Tags: note.Tags(), HTML: html})
}

func (c *Cli) runList(ctx context.Context, opts listOptions) error {
	var (
		notes []*models.LocalNote
		err   error
	)

	switch {
	case opts.tag != "":
		notes, err = c.dataService.ListLocalByTag(ctx, opts.tag)
	case opts.query != "":
		notes, err = c.dataService.SearchLocal(ctx, opts.query)
	default:
		notes, err = c.dataService.ListLocal(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if len(notes) == 0 {
		c.io.Println("No notes found.")
		return nil
	}

	if err := c.render(listTemplate, notes); err != nil {
		return err
	}
	c.io.Printf("\nTotal: %d\n", len(notes))
	return nil
}
