// Package conflict guards writes to the authoritative note store with
// optimistic concurrency control.
package conflict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/notekeeper/internal/events"
	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/render"
	"github.com/iudanet/notekeeper/internal/server/storage"
	"github.com/iudanet/notekeeper/internal/validation"
)

// DefaultForceAttempts bounds the read-then-CAS loop of ForceUpdate.
const DefaultForceAttempts = 5

// Resolver applies writes to the authoritative store. Checked writes never
// merge: a stale expected version is reported back as *models.ConflictError.
type Resolver struct {
	store         storage.NoteStorage
	sink          events.Sink
	logger        *slog.Logger
	now           func() time.Time
	forceAttempts int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithForceAttempts overrides the number of CAS attempts made by ForceUpdate.
func WithForceAttempts(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.forceAttempts = n
		}
	}
}

// NewResolver creates a new resolver
func NewResolver(store storage.NoteStorage, sink events.Sink, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		store:         store,
		sink:          events.OrNop(sink),
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
		forceAttempts: DefaultForceAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the current authoritative note.
func (r *Resolver) Get(ctx context.Context, id string) (*models.Note, error) {
	note, err := r.store.GetNote(ctx, id)
	if err != nil {
		return nil, mapStorageError(id, err)
	}
	return note, nil
}

// List returns every authoritative note.
func (r *Resolver) List(ctx context.Context) ([]*models.Note, error) {
	notes, err := r.store.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// Create stores a new note at version 1. Creation is never version checked.
func (r *Resolver) Create(ctx context.Context, fields models.NoteFields, editor string) (*models.Note, error) {
	now := r.now()
	note := &models.Note{
		ID:         uuid.New().String(),
		Tags:       []string{},
		Version:    1,
		LastEditor: editor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	fields.Apply(note)

	if err := validation.ValidateNote(note.Title, note.Body, note.Tags); err != nil {
		return nil, err
	}
	note.RenderedBody = render.Markdown(note.Body)

	if err := r.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	r.logger.Info("Note created", "id", note.ID, "editor", editor)
	r.publishChanged(ctx, note)

	return note, nil
}

// DescribeConflict contrasts the current note with an incoming edit.
// It never writes.
func (r *Resolver) DescribeConflict(ctx context.Context, id string, expectedVersion int64, incoming models.NoteFields, editor string) (*models.ConflictDescriptor, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.NewConflictDescriptor(current, expectedVersion, incoming, editor), nil
}

// UpdateWithCheck applies fields only if the stored version still equals
// expectedVersion. On mismatch it returns *models.ConflictError and writes nothing.
func (r *Resolver) UpdateWithCheck(ctx context.Context, id string, expectedVersion int64, fields models.NoteFields, editor string) (*models.Note, error) {
	if err := validation.ValidateFields(fields); err != nil {
		return nil, err
	}

	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Version != expectedVersion {
		r.logger.Info("Rejected stale update",
			"id", id,
			"editor", editor,
			"expected_version", expectedVersion,
			"current_version", current.Version,
		)
		return nil, &models.ConflictError{
			ID:              id,
			ExpectedVersion: expectedVersion,
			CurrentVersion:  current.Version,
		}
	}

	note, err := r.write(ctx, current, fields, editor)
	if err != nil {
		return nil, err
	}

	r.publishChanged(ctx, note)
	return note, nil
}

// ForceUpdate applies fields unconditionally (last write wins). The write is
// still a compare-and-swap against the freshly read version, retried while
// concurrent writers keep moving the version.
func (r *Resolver) ForceUpdate(ctx context.Context, id string, fields models.NoteFields, editor string) (*models.Note, error) {
	if err := validation.ValidateFields(fields); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= r.forceAttempts; attempt++ {
		current, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		note, err := r.write(ctx, current, fields, editor)
		if err == nil {
			r.publishChanged(ctx, note)
			return note, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, err
		}

		lastErr = err
		r.logger.Debug("Force update raced with another writer, retrying",
			"id", id,
			"attempt", attempt,
		)
	}

	return nil, fmt.Errorf("force update of note %s gave up after %d attempts: %w", id, r.forceAttempts, lastErr)
}

// Delete removes a note. Deletion is not version checked.
func (r *Resolver) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteNote(ctx, id); err != nil {
		return mapStorageError(id, err)
	}

	r.logger.Info("Note deleted", "id", id)

	ev := events.New(events.KindNoteDeleted)
	ev.NoteID = id
	r.sink.Publish(ctx, ev)

	return nil
}

// write применяет поля к копии current и выполняет CAS по версии current
func (r *Resolver) write(ctx context.Context, current *models.Note, fields models.NoteFields, editor string) (*models.Note, error) {
	note := current.Clone()
	if fields.Apply(note) {
		note.RenderedBody = render.Markdown(note.Body)
	}
	note.LastEditor = editor
	note.UpdatedAt = r.now()

	if err := r.store.UpdateNote(ctx, note, current.Version); err != nil {
		return nil, mapStorageError(current.ID, err)
	}

	r.logger.Info("Note updated",
		"id", note.ID,
		"editor", editor,
		"version", note.Version,
	)
	return note, nil
}

func (r *Resolver) publishChanged(ctx context.Context, note *models.Note) {
	ev := events.New(events.KindNoteChanged)
	ev.NoteID = note.ID
	ev.Payload = map[string]any{
		"version": note.Version,
		"editor":  note.LastEditor,
	}
	r.sink.Publish(ctx, ev)
}

// mapStorageError переводит ошибки хранилища в доменные
func mapStorageError(id string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNoteNotFound):
		return fmt.Errorf("%w: %s", models.ErrNoteNotFound, id)
	case errors.Is(err, models.ErrVersionConflict):
		return err
	default:
		return fmt.Errorf("storage error for note %s: %w", id, err)
	}
}
