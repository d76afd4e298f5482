package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/storage"
)

const noteColumns = `id, title, body, rendered_body, tags, version, last_editor, created_at, updated_at`

// CreateNote inserts a new note
// Returns ErrNoteAlreadyExists if a note with the same ID exists
func (s *Storage) CreateNote(ctx context.Context, note *models.Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notes (` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		note.ID,
		note.Title,
		note.Body,
		note.RenderedBody,
		tags,
		note.Version,
		note.LastEditor,
		timeToUnix(note.CreatedAt),
		timeToUnix(note.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrNoteAlreadyExists
		}
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return nil
}

// GetNote retrieves a single note by ID
// Returns ErrNoteNotFound if note doesn't exist
func (s *Storage) GetNote(ctx context.Context, id string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`

	note, err := scanNote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

// ListNotes retrieves all notes ordered by creation time
// Returns empty slice if no notes found
func (s *Storage) ListNotes(ctx context.Context) (notes []*models.Note, err error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	notes = make([]*models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return notes, nil
}

// UpdateNote stores note only if the stored version equals expectedVersion
// Returns *models.ConflictError on version mismatch, ErrNoteNotFound if note doesn't exist
func (s *Storage) UpdateNote(ctx context.Context, note *models.Note, expectedVersion int64) (err error) {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Сравнение и запись выполняются одним UPDATE: версия растёт ровно на 1
	query := `
		UPDATE notes
		SET title = ?, body = ?, rendered_body = ?, tags = ?,
		    version = version + 1, last_editor = ?, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := tx.ExecContext(ctx, query,
		note.Title,
		note.Body,
		note.RenderedBody,
		tags,
		note.LastEditor,
		timeToUnix(note.UpdatedAt),
		note.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if affected == 0 {
		// Ничего не записано: либо записи нет, либо версия устарела
		var current int64
		err = tx.QueryRowContext(ctx, `SELECT version FROM notes WHERE id = ?`, note.ID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNoteNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read current version: %w", err)
		}
		err = &models.ConflictError{
			ID:              note.ID,
			ExpectedVersion: expectedVersion,
			CurrentVersion:  current,
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	note.Version = expectedVersion + 1
	return nil
}

// DeleteNote removes a note
// Returns ErrNoteNotFound if note doesn't exist
func (s *Storage) DeleteNote(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if affected == 0 {
		return storage.ErrNoteNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	note := &models.Note{}
	var tags string
	var createdAt, updatedAt int64

	err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Body,
		&note.RenderedBody,
		&tags,
		&note.Version,
		&note.LastEditor,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &note.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of note %s: %w", note.ID, err)
	}
	note.Tags = models.NormalizeTags(note.Tags)
	note.CreatedAt = unixToTime(createdAt)
	note.UpdatedAt = unixToTime(updatedAt)

	return note, nil
}

func encodeTags(tags []string) (string, error) {
	data, err := json.Marshal(models.NormalizeTags(tags))
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite не экспортирует код ошибки в стабильном виде
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func timeToUnix(t time.Time) int64 {
	return t.UnixNano()
}

func unixToTime(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
