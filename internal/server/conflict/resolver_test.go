package conflict

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/internal/events"
	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/storage"
	"github.com/iudanet/notekeeper/internal/server/storage/sqlite"
	"github.com/iudanet/notekeeper/internal/validation"
)

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *recordingSink) Publish(_ context.Context, ev events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) kinds() []events.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Kind, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Kind)
	}
	return out
}

func ptr(s string) *string { return &s }

func setupResolver(t *testing.T) (*Resolver, *recordingSink) {
	t.Helper()

	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sink := &recordingSink{}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewResolver(store, sink, logger), sink
}

func TestResolver_Create(t *testing.T) {
	ctx := context.Background()
	r, sink := setupResolver(t)

	note, err := r.Create(ctx, models.FieldsOf("Plan", "# Heading", []string{"b", "a"}), "alice")
	require.NoError(t, err)

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, int64(1), note.Version)
	assert.Equal(t, "alice", note.LastEditor)
	assert.Equal(t, []string{"a", "b"}, note.Tags)
	assert.Contains(t, note.RenderedBody, "<h1>Heading</h1>")
	assert.Equal(t, []events.Kind{events.KindNoteChanged}, sink.kinds())

	_, err = r.Create(ctx, models.FieldsOf("", "body", nil), "alice")
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestResolver_UpdateWithCheck(t *testing.T) {
	ctx := context.Background()
	r, _ := setupResolver(t)

	note, err := r.Create(ctx, models.FieldsOf("Title", "Body", nil), "alice")
	require.NoError(t, err)

	t.Run("matching version increments by one", func(t *testing.T) {
		updated, err := r.UpdateWithCheck(ctx, note.ID, 1, models.NoteFields{Body: ptr("New *body*")}, "bob")
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.Version)
		assert.Equal(t, "Title", updated.Title)
		assert.Equal(t, "bob", updated.LastEditor)
		assert.Contains(t, updated.RenderedBody, "<em>body</em>")
	})

	t.Run("stale version conflicts without writing", func(t *testing.T) {
		_, err := r.UpdateWithCheck(ctx, note.ID, 1, models.NoteFields{Title: ptr("Lost")}, "carol")

		var ce *models.ConflictError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, int64(1), ce.ExpectedVersion)
		assert.Equal(t, int64(2), ce.CurrentVersion)

		stored, err := r.Get(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, "Title", stored.Title)
		assert.Equal(t, int64(2), stored.Version)
	})

	t.Run("unknown note", func(t *testing.T) {
		_, err := r.UpdateWithCheck(ctx, "missing", 1, models.NoteFields{Title: ptr("x")}, "bob")
		assert.ErrorIs(t, err, models.ErrNoteNotFound)
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, err := r.UpdateWithCheck(ctx, note.ID, 2, models.NoteFields{Tags: []string{"a,b"}}, "bob")
		assert.ErrorIs(t, err, validation.ErrInvalid)
	})
}

// Два редактора с одной и той же версией: побеждает ровно один
func TestResolver_ConcurrentEditorsScenario(t *testing.T) {
	ctx := context.Background()
	r, _ := setupResolver(t)

	note, err := r.Create(ctx, models.FieldsOf("Shared", "v1", nil), "alice")
	require.NoError(t, err)

	first, err := r.UpdateWithCheck(ctx, note.ID, 1, models.NoteFields{Body: ptr("from A")}, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Version)

	_, err = r.UpdateWithCheck(ctx, note.ID, 1, models.NoteFields{Body: ptr("from B")}, "bob")
	var ce *models.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, int64(2), ce.CurrentVersion)

	d, err := r.DescribeConflict(ctx, note.ID, 1, models.NoteFields{Body: ptr("from B")}, "bob")
	require.NoError(t, err)
	assert.True(t, d.HasConflict)
	assert.Equal(t, "from A", d.Current.Body)
	assert.Equal(t, "alice", d.Current.Editor)
	assert.Equal(t, "from B", d.Incoming.Body)
	assert.Equal(t, "bob", d.Incoming.Editor)

	second, err := r.UpdateWithCheck(ctx, note.ID, ce.CurrentVersion, models.NoteFields{Body: ptr("from B")}, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(3), second.Version)
}

func TestResolver_DescribeConflict_NoConflict(t *testing.T) {
	ctx := context.Background()
	r, sink := setupResolver(t)

	note, err := r.Create(ctx, models.FieldsOf("Same", "Body", nil), "alice")
	require.NoError(t, err)

	d, err := r.DescribeConflict(ctx, note.ID, note.Version, models.NoteFields{Title: ptr("Same")}, "bob")
	require.NoError(t, err)
	assert.False(t, d.HasConflict)
	assert.Empty(t, d.DivergentFields)

	// Описание конфликта ничего не пишет
	stored, err := r.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Len(t, sink.kinds(), 1)

	_, err = r.DescribeConflict(ctx, "missing", 1, models.NoteFields{}, "bob")
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestResolver_ForceUpdate(t *testing.T) {
	ctx := context.Background()
	r, _ := setupResolver(t)

	note, err := r.Create(ctx, models.FieldsOf("Title", "Body", nil), "alice")
	require.NoError(t, err)
	_, err = r.UpdateWithCheck(ctx, note.ID, 1, models.NoteFields{Body: ptr("v2")}, "alice")
	require.NoError(t, err)

	forced, err := r.ForceUpdate(ctx, note.ID, models.NoteFields{Body: ptr("overwrite")}, "sync")
	require.NoError(t, err)
	assert.Equal(t, int64(3), forced.Version)
	assert.Equal(t, "overwrite", forced.Body)

	_, err = r.ForceUpdate(ctx, "missing", models.NoteFields{Body: ptr("x")}, "sync")
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestResolver_ForceUpdate_RetriesOnRace(t *testing.T) {
	ctx := context.Background()

	version := int64(1)
	updates := 0
	store := &storage.NoteStorageMock{
		GetNoteFunc: func(ctx context.Context, id string) (*models.Note, error) {
			return &models.Note{ID: id, Title: "t", Version: version}, nil
		},
		UpdateNoteFunc: func(ctx context.Context, note *models.Note, expectedVersion int64) error {
			updates++
			if updates < 3 {
				// другой писатель успел раньше
				version++
				return &models.ConflictError{ID: note.ID, ExpectedVersion: expectedVersion, CurrentVersion: version}
			}
			note.Version = expectedVersion + 1
			return nil
		},
	}

	r := NewResolver(store, nil, slog.New(slog.NewTextHandler(os.Stdout, nil)))
	note, err := r.ForceUpdate(ctx, "n1", models.NoteFields{Title: ptr("forced")}, "sync")
	require.NoError(t, err)
	assert.Equal(t, 3, updates)
	assert.Equal(t, int64(4), note.Version)
	assert.Len(t, store.GetNoteCalls(), 3)
}

func TestResolver_ForceUpdate_GivesUp(t *testing.T) {
	store := &storage.NoteStorageMock{
		GetNoteFunc: func(ctx context.Context, id string) (*models.Note, error) {
			return &models.Note{ID: id, Version: 1}, nil
		},
		UpdateNoteFunc: func(ctx context.Context, note *models.Note, expectedVersion int64) error {
			return &models.ConflictError{ID: note.ID, ExpectedVersion: expectedVersion, CurrentVersion: expectedVersion + 1}
		},
	}

	r := NewResolver(store, nil, slog.New(slog.NewTextHandler(os.Stdout, nil)), WithForceAttempts(2))
	_, err := r.ForceUpdate(context.Background(), "n1", models.NoteFields{Title: ptr("x")}, "sync")
	assert.ErrorIs(t, err, models.ErrVersionConflict)
	assert.Len(t, store.UpdateNoteCalls(), 2)
}

func TestResolver_Delete(t *testing.T) {
	ctx := context.Background()
	r, sink := setupResolver(t)

	note, err := r.Create(ctx, models.FieldsOf("Bye", "", nil), "alice")
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, note.ID))
	assert.Equal(t, []events.Kind{events.KindNoteChanged, events.KindNoteDeleted}, sink.kinds())

	_, err = r.Get(ctx, note.ID)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
	assert.ErrorIs(t, r.Delete(ctx, note.ID), models.ErrNoteNotFound)
}

func TestResolver_VersionMonotonic(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	store, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "mono.db"))
	require.NoError(t, err)
	defer store.Close()

	r := NewResolver(store, events.Nop, slog.New(slog.NewTextHandler(os.Stdout, nil)), WithClock(func() time.Time { return fixed }))

	note, err := r.Create(ctx, models.FieldsOf("Counter", "0", nil), "alice")
	require.NoError(t, err)
	assert.True(t, note.CreatedAt.Equal(fixed))

	prev := note.Version
	for i := 0; i < 5; i++ {
		n, err := r.ForceUpdate(ctx, note.ID, models.NoteFields{}, "alice")
		require.NoError(t, err)
		assert.Equal(t, prev+1, n.Version)
		prev = n.Version
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(6), list[0].Version)
}
