package storage

import (
	"context"

	"github.com/iudanet/notekeeper/internal/models"
)

//go:generate moq -out notes_mock.go . NoteStorage

// NoteStorage defines interface for authoritative note persistence
type NoteStorage interface {
	// CreateNote inserts a new note. Version must already be set by the caller
	// Returns ErrNoteAlreadyExists if a note with the same ID exists
	CreateNote(ctx context.Context, note *models.Note) error

	// GetNote retrieves a single note by ID
	// Returns ErrNoteNotFound if note doesn't exist
	GetNote(ctx context.Context, id string) (*models.Note, error)

	// ListNotes retrieves all notes ordered by creation time
	// Returns empty slice if no notes found
	ListNotes(ctx context.Context) ([]*models.Note, error)

	// UpdateNote stores note only if the stored version equals expectedVersion
	// (compare-and-swap). On success the stored version becomes expectedVersion+1
	// and note.Version is updated accordingly.
	// Returns *models.ConflictError on version mismatch, ErrNoteNotFound if note doesn't exist
	UpdateNote(ctx context.Context, note *models.Note, expectedVersion int64) error

	// DeleteNote removes a note
	// Returns ErrNoteNotFound if note doesn't exist
	DeleteNote(ctx context.Context, id string) error
}
