package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/iudanet/notekeeper/internal/client/storage"
	"github.com/iudanet/notekeeper/internal/models"
)

// SaveNote creates or replaces a local note
// Returns ErrDuplicateRemoteID if another note already holds note.RemoteID
func (s *Storage) SaveNote(ctx context.Context, note *models.LocalNote) error {
	if note.LocalID == "" {
		return fmt.Errorf("local id is required")
	}

	return s.update(func(tx *bbolt.Tx) error {
		previous, err := getNote(tx, note.LocalID)
		if err != nil && err != storage.ErrNoteNotFound {
			return err
		}
		return putNote(tx, previous, note)
	})
}

// GetNote retrieves a local note by local ID
func (s *Storage) GetNote(ctx context.Context, localID string) (*models.LocalNote, error) {
	var note *models.LocalNote

	err := s.view(func(tx *bbolt.Tx) error {
		var err error
		note, err = getNote(tx, localID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return note, nil
}

// GetNoteByRemoteID retrieves the local note linked to remoteID
func (s *Storage) GetNoteByRemoteID(ctx context.Context, remoteID string) (*models.LocalNote, error) {
	if remoteID == "" {
		return nil, storage.ErrNoteNotFound
	}

	var note *models.LocalNote

	err := s.view(func(tx *bbolt.Tx) error {
		localID := tx.Bucket(bucketRemoteIndex).Get([]byte(remoteID))
		if localID == nil {
			return storage.ErrNoteNotFound
		}

		var err error
		note, err = getNote(tx, string(localID))
		return err
	})
	if err != nil {
		return nil, err
	}

	return note, nil
}

// UpdateNote atomically reads the note, applies fn and stores the result
func (s *Storage) UpdateNote(ctx context.Context, localID string, fn func(note *models.LocalNote) error) (*models.LocalNote, error) {
	var updated *models.LocalNote

	err := s.update(func(tx *bbolt.Tx) error {
		previous, err := getNote(tx, localID)
		if err != nil {
			return err
		}

		note := previous.Clone()
		if err := fn(note); err != nil {
			return err
		}
		// Ключ записи менять нельзя
		note.LocalID = localID

		if err := putNote(tx, previous, note); err != nil {
			return err
		}

		updated = note
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteNote physically removes a local note together with its index entry
func (s *Storage) DeleteNote(ctx context.Context, localID string) error {
	_, err := s.DeleteNoteIf(ctx, localID, func(*models.LocalNote) bool { return true })
	return err
}

// DeleteNoteIf removes the note only when cond holds for its current state.
// Check and removal happen in one transaction.
func (s *Storage) DeleteNoteIf(ctx context.Context, localID string, cond func(note *models.LocalNote) bool) (bool, error) {
	deleted := false

	err := s.update(func(tx *bbolt.Tx) error {
		note, err := getNote(tx, localID)
		if err != nil {
			return err
		}
		if !cond(note) {
			return nil
		}

		if note.RemoteID != "" {
			if err := tx.Bucket(bucketRemoteIndex).Delete([]byte(note.RemoteID)); err != nil {
				return fmt.Errorf("failed to delete index entry: %w", err)
			}
		}

		if err := tx.Bucket(bucketNotes).Delete([]byte(localID)); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}

		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// ListNotes returns every local note ordered by creation time
func (s *Storage) ListNotes(ctx context.Context) ([]*models.LocalNote, error) {
	return s.listNotes(func(*models.LocalNote) bool { return true })
}

// ListNotesByStatus returns the notes in the given sync status
func (s *Storage) ListNotesByStatus(ctx context.Context, status models.SyncStatus) ([]*models.LocalNote, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown sync status %q", status)
	}
	return s.listNotes(func(n *models.LocalNote) bool { return n.SyncStatus == status })
}

// CountByStatus returns the number of notes per sync status
func (s *Storage) CountByStatus(ctx context.Context) (map[models.SyncStatus]int, error) {
	counts := map[models.SyncStatus]int{
		models.StatusPendingSync:   0,
		models.StatusPendingDelete: 0,
		models.StatusSynced:        0,
	}

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(k, v []byte) error {
			// Статус читаем без полной десериализации тела
			var head struct {
				SyncStatus models.SyncStatus `json:"sync_status"`
			}
			if err := json.Unmarshal(v, &head); err != nil {
				return fmt.Errorf("failed to unmarshal note %s: %w", k, err)
			}
			counts[head.SyncStatus]++
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (s *Storage) listNotes(keep func(*models.LocalNote) bool) ([]*models.LocalNote, error) {
	notes := make([]*models.LocalNote, 0)

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(k, v []byte) error {
			note := &models.LocalNote{}
			if err := json.Unmarshal(v, note); err != nil {
				return fmt.Errorf("failed to unmarshal note %s: %w", k, err)
			}
			if keep(note) {
				notes = append(notes, note)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		}
		return notes[i].LocalID < notes[j].LocalID
	})

	return notes, nil
}

func getNote(tx *bbolt.Tx, localID string) (*models.LocalNote, error) {
	data := tx.Bucket(bucketNotes).Get([]byte(localID))
	if data == nil {
		return nil, storage.ErrNoteNotFound
	}

	note := &models.LocalNote{}
	if err := json.Unmarshal(data, note); err != nil {
		return nil, fmt.Errorf("failed to unmarshal note: %w", err)
	}

	return note, nil
}

// putNote сохраняет запись и поддерживает индекс remoteID -> localID в той же транзакции.
// previous может быть nil для новой записи
func putNote(tx *bbolt.Tx, previous, note *models.LocalNote) error {
	index := tx.Bucket(bucketRemoteIndex)

	if note.RemoteID != "" {
		if owner := index.Get([]byte(note.RemoteID)); owner != nil && string(owner) != note.LocalID {
			return storage.ErrDuplicateRemoteID
		}
	}

	if previous != nil && previous.RemoteID != "" && previous.RemoteID != note.RemoteID {
		if err := index.Delete([]byte(previous.RemoteID)); err != nil {
			return fmt.Errorf("failed to delete stale index entry: %w", err)
		}
	}

	if note.RemoteID != "" {
		if err := index.Put([]byte(note.RemoteID), []byte(note.LocalID)); err != nil {
			return fmt.Errorf("failed to update index: %w", err)
		}
	}

	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	if err := tx.Bucket(bucketNotes).Put([]byte(note.LocalID), data); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	return nil
}
