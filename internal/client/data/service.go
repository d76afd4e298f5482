// Package data implements the local note API of the client: every edit made
// here lands in the local staging store and is reconciled later by the sync
// orchestrator.
package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/notekeeper/internal/client/storage"
	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/render"
	"github.com/iudanet/notekeeper/internal/validation"
)

//go:generate moq -out service_mock.go . Service

// ErrNoteDeleted is returned when editing a note that is pending deletion.
var ErrNoteDeleted = errors.New("note is deleted")

// Service определяет интерфейс для клиентского data сервиса
type Service interface {
	CreateLocal(ctx context.Context, title, body string, tags []string) (*models.LocalNote, error)
	UpdateLocal(ctx context.Context, localID string, fields models.NoteFields) (*models.LocalNote, error)
	DeleteLocal(ctx context.Context, localID string) error
	GetLocal(ctx context.Context, localID string) (*models.LocalNote, error)

	ListLocal(ctx context.Context) ([]*models.LocalNote, error)
	SearchLocal(ctx context.Context, query string) ([]*models.LocalNote, error)
	ListLocalByTag(ctx context.Context, tag string) ([]*models.LocalNote, error)
}

// service handles client-side note operations against the staging store
type service struct {
	store  storage.NoteStorage
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new data service
func NewService(store storage.NoteStorage, logger *slog.Logger) Service {
	return &service{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateLocal stores a new PENDING_SYNC note.
func (s *service) CreateLocal(ctx context.Context, title, body string, tags []string) (*models.LocalNote, error) {
	if err := validation.ValidateNote(title, body, tags); err != nil {
		return nil, err
	}

	now := s.now()
	note := &models.LocalNote{
		LocalID:      uuid.New().String(),
		Title:        title,
		Body:         body,
		RenderedBody: render.Markdown(body),
		TagCSV:       models.EncodeTags(tags),
		SyncStatus:   models.StatusPendingSync,
		Revision:     1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	s.logger.Debug("Local note created", "local_id", note.LocalID)
	return note, nil
}

// UpdateLocal applies fields to a local note and resets it to PENDING_SYNC.
// Unset fields keep their value.
func (s *service) UpdateLocal(ctx context.Context, localID string, fields models.NoteFields) (*models.LocalNote, error) {
	if fields.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", validation.ErrInvalid)
	}
	if err := validation.ValidateFields(fields); err != nil {
		return nil, err
	}

	note, err := s.store.UpdateNote(ctx, localID, func(n *models.LocalNote) error {
		if !n.Visible() {
			return ErrNoteDeleted
		}

		if fields.Title != nil {
			n.Title = *fields.Title
		}
		if fields.Body != nil && *fields.Body != n.Body {
			n.Body = *fields.Body
			n.RenderedBody = render.Markdown(n.Body)
		}
		if fields.Tags != nil {
			n.TagCSV = models.EncodeTags(fields.Tags)
		}

		n.SyncStatus = models.StatusPendingSync
		n.Revision++
		n.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update note %s: %w", localID, err)
	}

	s.logger.Debug("Local note updated", "local_id", localID, "revision", note.Revision)
	return note, nil
}

// DeleteLocal marks a pushed note PENDING_DELETE. A note that never reached
// the server is removed right away.
func (s *service) DeleteLocal(ctx context.Context, localID string) error {
	var removeNow bool

	_, err := s.store.UpdateNote(ctx, localID, func(n *models.LocalNote) error {
		if !n.Visible() {
			return ErrNoteDeleted
		}
		if !n.HasRemote() {
			removeNow = true
			return errSkipWrite
		}

		// Содержимое сохраняется: удаление должно быть применено на сервере
		n.SyncStatus = models.StatusPendingDelete
		n.Revision++
		n.UpdatedAt = s.now()
		return nil
	})

	switch {
	case errors.Is(err, errSkipWrite):
	case err != nil:
		return fmt.Errorf("failed to delete note %s: %w", localID, err)
	}

	if removeNow {
		if err := s.store.DeleteNote(ctx, localID); err != nil {
			return fmt.Errorf("failed to delete note %s: %w", localID, err)
		}
		s.logger.Debug("Unsynced local note removed", "local_id", localID)
		return nil
	}

	s.logger.Debug("Local note marked for deletion", "local_id", localID)
	return nil
}

// errSkipWrite aborts an UpdateNote transaction without reporting a failure.
var errSkipWrite = errors.New("skip write")

// GetLocal returns a visible local note.
func (s *service) GetLocal(ctx context.Context, localID string) (*models.LocalNote, error) {
	note, err := s.store.GetNote(ctx, localID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note %s: %w", localID, err)
	}
	if !note.Visible() {
		return nil, fmt.Errorf("failed to get note %s: %w", localID, ErrNoteDeleted)
	}
	return note, nil
}

// ListLocal returns every visible local note.
func (s *service) ListLocal(ctx context.Context) ([]*models.LocalNote, error) {
	return s.filter(ctx, func(*models.LocalNote) bool { return true })
}

// SearchLocal returns visible notes whose title, body or tags contain query
// (case-insensitive). An empty query matches everything.
func (s *service) SearchLocal(ctx context.Context, query string) ([]*models.LocalNote, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return s.filter(ctx, func(n *models.LocalNote) bool {
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Body), q) ||
			strings.Contains(strings.ToLower(n.TagCSV), q)
	})
}

// ListLocalByTag returns visible notes carrying tag.
func (s *service) ListLocalByTag(ctx context.Context, tag string) ([]*models.LocalNote, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, fmt.Errorf("%w: tag cannot be empty", validation.ErrInvalid)
	}
	return s.filter(ctx, func(n *models.LocalNote) bool {
		return models.HasTag(n.Tags(), tag)
	})
}

func (s *service) filter(ctx context.Context, keep func(*models.LocalNote) bool) ([]*models.LocalNote, error) {
	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	result := make([]*models.LocalNote, 0, len(notes))
	for _, n := range notes {
		// PENDING_DELETE и tombstone-записи пользователю не показываем
		if !n.Visible() {
			continue
		}
		if keep(n) {
			result = append(result, n)
		}
	}
	return result, nil
}
