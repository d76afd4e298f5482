package storage

import "errors"

// Common client storage errors
var (
	// ErrNoteNotFound indicates that local note was not found
	ErrNoteNotFound = errors.New("local note not found")

	// ErrDuplicateRemoteID indicates that another local note already references the remote ID
	ErrDuplicateRemoteID = errors.New("remote id already linked to another local note")

	// ErrTokenNotFound indicates that no access token is stored
	ErrTokenNotFound = errors.New("access token not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
