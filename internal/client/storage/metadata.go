package storage

import (
	"context"
	"time"
)

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastSyncTime saves the time of the last completed sync cycle
	SaveLastSyncTime(ctx context.Context, t time.Time) error

	// GetLastSyncTime retrieves the time of the last completed sync cycle
	// Returns zero time if no sync has been performed yet
	GetLastSyncTime(ctx context.Context) (time.Time, error)
}

// TokenStorage persists the editor access token between CLI runs
type TokenStorage interface {
	// SaveToken stores the access token, replacing any previous one
	SaveToken(ctx context.Context, token string) error

	// GetToken retrieves the stored access token
	// Returns ErrTokenNotFound if no token is stored
	GetToken(ctx context.Context) (string, error)

	// DeleteToken removes the stored token; a missing token is not an error
	DeleteToken(ctx context.Context) error
}
