package storage

import (
	"context"

	"github.com/iudanet/notekeeper/internal/models"
)

// NoteStorage defines interface for the local staging store
type NoteStorage interface {
	// SaveNote creates or replaces a local note
	// Returns ErrDuplicateRemoteID if another note already holds note.RemoteID
	SaveNote(ctx context.Context, note *models.LocalNote) error

	// GetNote retrieves a local note by local ID
	// Returns ErrNoteNotFound if note doesn't exist
	GetNote(ctx context.Context, localID string) (*models.LocalNote, error)

	// GetNoteByRemoteID retrieves the local note linked to remoteID
	// Returns ErrNoteNotFound if no note is linked
	GetNoteByRemoteID(ctx context.Context, remoteID string) (*models.LocalNote, error)

	// UpdateNote atomically reads the note, applies fn and stores the result
	// in one transaction. If fn returns an error nothing is written
	UpdateNote(ctx context.Context, localID string, fn func(note *models.LocalNote) error) (*models.LocalNote, error)

	// DeleteNote physically removes a local note
	// Returns ErrNoteNotFound if note doesn't exist
	DeleteNote(ctx context.Context, localID string) error

	// DeleteNoteIf physically removes the note only if cond holds for its
	// current state, checked in the same transaction. Reports whether it was removed
	DeleteNoteIf(ctx context.Context, localID string, cond func(note *models.LocalNote) bool) (bool, error)

	// ListNotes returns every local note, including pending deletes and tombstones
	ListNotes(ctx context.Context) ([]*models.LocalNote, error)

	// ListNotesByStatus returns the notes in the given sync status
	ListNotesByStatus(ctx context.Context, status models.SyncStatus) ([]*models.LocalNote, error)

	// CountByStatus returns the number of notes per sync status
	CountByStatus(ctx context.Context) (map[models.SyncStatus]int, error)
}
