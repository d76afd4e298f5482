package storage

import (
	"errors"

	"github.com/iudanet/notekeeper/internal/models"
)

// Common storage errors
var (
	// ErrNoteNotFound indicates that note was not found in storage
	ErrNoteNotFound = errors.New("note not found")

	// ErrNoteAlreadyExists indicates that note with this ID already exists
	ErrNoteAlreadyExists = errors.New("note already exists")

	// ErrVersionConflict indicates that a checked write carried a stale version.
	// Storage returns *models.ConflictError, which matches this sentinel.
	ErrVersionConflict = models.ErrVersionConflict
)
