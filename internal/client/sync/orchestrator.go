// Package sync reconciles the local staging store with the authoritative
// note server.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/notekeeper/internal/client/storage"
	"github.com/iudanet/notekeeper/internal/crypto"
	"github.com/iudanet/notekeeper/internal/events"
	"github.com/iudanet/notekeeper/internal/models"
)

//go:generate moq -out remotestore_mock.go . RemoteStore

// RemoteStore определяет клиент авторитетного хранилища
type RemoteStore interface {
	// Create creates a note; the server assigns the ID and version 1
	Create(ctx context.Context, fields models.NoteFields) (*models.Note, error)

	// Get returns the current authoritative note
	// Returns models.ErrNoteNotFound if note doesn't exist
	Get(ctx context.Context, id string) (*models.Note, error)

	// Put overwrites the note content without a version check (last write wins)
	Put(ctx context.Context, id string, fields models.NoteFields) (*models.Note, error)

	// UpdateWithCheck writes only if expectedVersion is current,
	// otherwise returns *models.ConflictError
	UpdateWithCheck(ctx context.Context, id string, expectedVersion int64, fields models.NoteFields) (*models.Note, error)

	// Delete removes the note
	// Returns models.ErrNoteNotFound if note doesn't exist
	Delete(ctx context.Context, id string) error

	// ListAll returns every authoritative note
	ListAll(ctx context.Context) ([]*models.Note, error)
}

// DefaultCallTimeout bounds every remote call made during a cycle.
const DefaultCallTimeout = 10 * time.Second

// ErrSyncInProgress is returned by ForceSyncNow while a cycle is running.
var ErrSyncInProgress = errors.New("sync already in progress")

// errSkipWrite aborts an UpdateNote transaction without reporting a failure.
var errSkipWrite = errors.New("skip write")

// Config configures the orchestrator.
type Config struct {
	// CallTimeout bounds each remote call. Zero means DefaultCallTimeout.
	CallTimeout time.Duration
	// CheckedPush makes the push phase use UpdateWithCheck with the last
	// seen remote version instead of an unconditional overwrite.
	CheckedPush bool
}

// CycleResult contains sync cycle results
type CycleResult struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Pushed     int       `json:"pushed"`    // отправлено на сервер (включая созданные)
	Created    int       `json:"created"`   // из них создано на сервере
	Unchanged  int       `json:"unchanged"` // содержимое совпало с синхронизированным, запись не понадобилась
	Deleted    int       `json:"deleted"`   // удалений применено на сервере
	Pulled     int       `json:"pulled"`    // записей обновлено или создано локально
	Purged     int       `json:"purged"`    // tombstone-записей физически удалено
	Conflicts  int       `json:"conflicts"` // отклонено проверкой версии (только CheckedPush)
	Failed     int       `json:"failed"`    // ошибок на уровне отдельных записей
	Priority   bool      `json:"priority"`
}

// Status describes the state of the local store relative to the server.
type Status struct {
	LastSyncTime       time.Time    `json:"last_sync_time"`
	LastResult         *CycleResult `json:"last_result,omitempty"`
	PendingSyncCount   int          `json:"pending_sync_count"`
	PendingDeleteCount int          `json:"pending_delete_count"`
	TotalSyncedCount   int          `json:"total_synced_count"`
	SyncInProgress     bool         `json:"sync_in_progress"`
}

// Orchestrator is the only component that moves data between the local
// staging store and the authoritative store. At most one cycle runs at a time.
type Orchestrator struct {
	remote     RemoteStore
	notes      storage.NoteStorage
	metadata   storage.MetadataStorage
	sink       events.Sink
	logger     *slog.Logger
	now        func() time.Time
	lastResult atomic.Pointer[CycleResult]
	cfg        Config
	running    atomic.Bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates a new sync orchestrator
func NewOrchestrator(
	remote RemoteStore,
	notes storage.NoteStorage,
	metadata storage.MetadataStorage,
	sink events.Sink,
	logger *slog.Logger,
	cfg Config,
	opts ...Option,
) *Orchestrator {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}

	o := &Orchestrator{
		remote:   remote,
		notes:    notes,
		metadata: metadata,
		sink:     events.OrNop(sink),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunCycle runs one scheduled cycle. If a cycle is already in flight the
// call returns (nil, false) immediately.
func (o *Orchestrator) RunCycle(ctx context.Context) (*CycleResult, bool) {
	return o.tryRun(ctx, false)
}

// RunPriority runs a cycle right away after a reconnect. It shares the
// in-flight guard with RunCycle.
func (o *Orchestrator) RunPriority(ctx context.Context) (*CycleResult, bool) {
	return o.tryRun(ctx, true)
}

// ForceSyncNow is the manual trigger. It reports ErrSyncInProgress instead
// of silently dropping the request.
func (o *Orchestrator) ForceSyncNow(ctx context.Context) (*CycleResult, error) {
	result, ok := o.tryRun(ctx, true)
	if !ok {
		return nil, ErrSyncInProgress
	}
	return result, nil
}

// InProgress reports whether a cycle is running.
func (o *Orchestrator) InProgress() bool {
	return o.running.Load()
}

// Status returns pending counters, the last sync time and the last result.
func (o *Orchestrator) Status(ctx context.Context) (*Status, error) {
	counts, err := o.notes.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}

	lastSync, err := o.metadata.GetLastSyncTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return &Status{
		PendingSyncCount:   counts[models.StatusPendingSync],
		PendingDeleteCount: counts[models.StatusPendingDelete],
		TotalSyncedCount:   counts[models.StatusSynced],
		SyncInProgress:     o.running.Load(),
		LastSyncTime:       lastSync,
		LastResult:         o.lastResult.Load(),
	}, nil
}

func (o *Orchestrator) tryRun(ctx context.Context, priority bool) (*CycleResult, bool) {
	if !o.running.CompareAndSwap(false, true) {
		o.logger.Debug("Sync already in progress, trigger dropped", "priority", priority)
		return nil, false
	}
	defer o.running.Store(false)

	return o.cycle(ctx, priority), true
}

// cycle выполняет фазы строго по порядку: push -> delete -> pull -> cleanup.
// Ошибки отдельных записей логируются и считаются, но не прерывают цикл.
func (o *Orchestrator) cycle(ctx context.Context, priority bool) *CycleResult {
	// Начатый цикл доводится до конца: отмена вызывающего его не прерывает,
	// каждый удалённый вызов ограничен собственным таймаутом
	ctx = context.WithoutCancel(ctx)

	result := &CycleResult{StartedAt: o.now(), Priority: priority}
	o.logger.Info("Starting synchronization", "priority", priority)

	o.pushPhase(ctx, result)
	o.deletePhase(ctx, result)
	remoteIDs, pulled := o.pullPhase(ctx, result)
	o.cleanupPhase(ctx, result, remoteIDs, pulled)

	result.FinishedAt = o.now()

	if err := o.metadata.SaveLastSyncTime(ctx, result.FinishedAt); err != nil {
		// Не прерываем синхронизацию из-за ошибки сохранения времени
		o.logger.Warn("Failed to save last sync time", "error", err)
	}
	o.lastResult.Store(result)

	o.logger.Info("Synchronization completed",
		"pushed", result.Pushed,
		"created", result.Created,
		"unchanged", result.Unchanged,
		"deleted", result.Deleted,
		"pulled", result.Pulled,
		"purged", result.Purged,
		"conflicts", result.Conflicts,
		"failed", result.Failed,
		"duration", result.FinishedAt.Sub(result.StartedAt))

	ev := events.New(events.KindSyncCompleted)
	ev.Payload = map[string]any{
		"pushed":    result.Pushed,
		"deleted":   result.Deleted,
		"pulled":    result.Pulled,
		"purged":    result.Purged,
		"conflicts": result.Conflicts,
		"failed":    result.Failed,
		"priority":  result.Priority,
	}
	o.sink.Publish(ctx, ev)

	return result
}

// call runs fn with the per-call timeout.
func (o *Orchestrator) call(ctx context.Context, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
	defer cancel()
	return fn(callCtx)
}

func (o *Orchestrator) pushPhase(ctx context.Context, result *CycleResult) {
	pending, err := o.notes.ListNotesByStatus(ctx, models.StatusPendingSync)
	if err != nil {
		o.logger.Warn("Failed to list pending notes", "error", err)
		result.Failed++
		return
	}

	for _, note := range pending {
		if err := o.pushNote(ctx, note, result); err != nil {
			o.logger.Warn("Failed to push note",
				"local_id", note.LocalID,
				"remote_id", note.RemoteID,
				"error", err)
			result.Failed++
		}
	}
}

func (o *Orchestrator) pushNote(ctx context.Context, note *models.LocalNote, result *CycleResult) error {
	fingerprint := crypto.LocalFingerprint(note)

	// Содержимое вернулось к синхронизированному состоянию: запись на сервер не нужна
	if note.HasRemote() && note.SyncedFingerprint == fingerprint {
		if err := o.commitPush(ctx, note, note.RemoteID, note.RemoteVersion, fingerprint); err != nil {
			return err
		}
		result.Unchanged++
		return nil
	}

	fields := note.Fields()

	var remote *models.Note
	created := false

	err := o.call(ctx, func(ctx context.Context) error {
		var err error
		switch {
		case !note.HasRemote():
			// Первая запись всегда успешна: проверки версии нет
			remote, err = o.remote.Create(ctx, fields)
			created = true
		case o.cfg.CheckedPush:
			remote, err = o.remote.UpdateWithCheck(ctx, note.RemoteID, note.RemoteVersion, fields)
		default:
			remote, err = o.remote.Put(ctx, note.RemoteID, fields)
		}
		return err
	})

	// Серверная копия удалена, а локальные правки приоритетнее: создаём заново
	if errors.Is(err, models.ErrNoteNotFound) && note.HasRemote() {
		o.logger.Warn("Remote note vanished, recreating it", "local_id", note.LocalID, "remote_id", note.RemoteID)
		err = o.call(ctx, func(ctx context.Context) error {
			var err error
			remote, err = o.remote.Create(ctx, fields)
			created = true
			return err
		})
	}

	if err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			o.reportConflict(ctx, note, conflict)
			result.Conflicts++
			return nil
		}
		return fmt.Errorf("remote write failed: %w", err)
	}

	if err := o.commitPush(ctx, note, remote.ID, remote.Version, fingerprint); err != nil {
		if created && errors.Is(err, storage.ErrNoteNotFound) {
			// Запись удалили локально во время push: убираем осиротевшую серверную копию
			o.discardOrphan(ctx, remote.ID)
		}
		return err
	}

	result.Pushed++
	if created {
		result.Created++
	}
	return nil
}

// commitPush records a successful push. If the note was edited locally while
// the push was in flight only the remote link is stored and the note stays
// pending, so the newer edit goes out on the next cycle.
func (o *Orchestrator) commitPush(ctx context.Context, pushed *models.LocalNote, remoteID string, remoteVersion int64, fingerprint string) error {
	now := o.now()

	_, err := o.notes.UpdateNote(ctx, pushed.LocalID, func(n *models.LocalNote) error {
		n.RemoteID = remoteID
		n.RemoteVersion = remoteVersion
		n.SyncedFingerprint = fingerprint

		if n.Revision != pushed.Revision {
			o.logger.Debug("Note changed during push, keeping it pending",
				"local_id", n.LocalID,
				"pushed_revision", pushed.Revision,
				"current_revision", n.Revision)
			return nil
		}

		n.MarkSynced(now, remoteVersion, fingerprint)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark note synced: %w", err)
	}
	return nil
}

func (o *Orchestrator) reportConflict(ctx context.Context, note *models.LocalNote, conflict *models.ConflictError) {
	o.logger.Warn("Push rejected by version check, note left pending",
		"local_id", note.LocalID,
		"remote_id", note.RemoteID,
		"expected_version", conflict.ExpectedVersion,
		"current_version", conflict.CurrentVersion)

	ev := events.New(events.KindSyncConflict)
	ev.NoteID = note.RemoteID
	ev.Payload = map[string]any{
		"local_id":         note.LocalID,
		"expected_version": conflict.ExpectedVersion,
		"current_version":  conflict.CurrentVersion,
	}

	// Кто изменил запись последним, полезно для разрешения конфликта; ошибка не критична
	_ = o.call(ctx, func(ctx context.Context) error {
		current, err := o.remote.Get(ctx, note.RemoteID)
		if err != nil {
			return err
		}
		ev.Payload["current_editor"] = current.LastEditor
		return nil
	})

	o.sink.Publish(ctx, ev)
}

func (o *Orchestrator) discardOrphan(ctx context.Context, remoteID string) {
	err := o.call(ctx, func(ctx context.Context) error {
		return o.remote.Delete(ctx, remoteID)
	})
	if err != nil && !errors.Is(err, models.ErrNoteNotFound) {
		o.logger.Warn("Failed to delete orphaned remote note", "remote_id", remoteID, "error", err)
	}
}

func (o *Orchestrator) deletePhase(ctx context.Context, result *CycleResult) {
	pending, err := o.notes.ListNotesByStatus(ctx, models.StatusPendingDelete)
	if err != nil {
		o.logger.Warn("Failed to list pending deletions", "error", err)
		result.Failed++
		return
	}

	for _, note := range pending {
		if err := o.deleteNote(ctx, note); err != nil {
			o.logger.Warn("Failed to apply deletion",
				"local_id", note.LocalID,
				"remote_id", note.RemoteID,
				"error", err)
			result.Failed++
			continue
		}
		result.Deleted++
	}
}

func (o *Orchestrator) deleteNote(ctx context.Context, note *models.LocalNote) error {
	if note.HasRemote() {
		err := o.call(ctx, func(ctx context.Context) error {
			return o.remote.Delete(ctx, note.RemoteID)
		})
		// Уже удалена на сервере: результат тот же
		if err != nil && !errors.Is(err, models.ErrNoteNotFound) {
			return fmt.Errorf("remote delete failed: %w", err)
		}
	}

	now := o.now()
	_, err := o.notes.UpdateNote(ctx, note.LocalID, func(n *models.LocalNote) error {
		if n.SyncStatus != models.StatusPendingDelete {
			return errSkipWrite
		}
		n.SyncStatus = models.StatusSynced
		n.Tombstone = true
		n.LastSyncedAt = &now
		return nil
	})
	if err != nil && !errors.Is(err, errSkipWrite) {
		return fmt.Errorf("failed to mark tombstone: %w", err)
	}
	return nil
}

// pullPhase returns the set of remote IDs seen and whether the listing succeeded.
func (o *Orchestrator) pullPhase(ctx context.Context, result *CycleResult) (map[string]struct{}, bool) {
	var remoteNotes []*models.Note
	err := o.call(ctx, func(ctx context.Context) error {
		var err error
		remoteNotes, err = o.remote.ListAll(ctx)
		return err
	})
	if err != nil {
		o.logger.Warn("Failed to list remote notes", "error", err)
		result.Failed++
		return nil, false
	}

	remoteIDs := make(map[string]struct{}, len(remoteNotes))
	for _, remote := range remoteNotes {
		remoteIDs[remote.ID] = struct{}{}

		changed, err := o.pullNote(ctx, remote)
		if err != nil {
			o.logger.Warn("Failed to pull note", "remote_id", remote.ID, "error", err)
			result.Failed++
			continue
		}
		if changed {
			result.Pulled++
		}
	}

	return remoteIDs, true
}

func (o *Orchestrator) pullNote(ctx context.Context, remote *models.Note) (bool, error) {
	now := o.now()
	fingerprint := crypto.NoteFingerprint(remote)

	local, err := o.notes.GetNoteByRemoteID(ctx, remote.ID)
	if errors.Is(err, storage.ErrNoteNotFound) {
		note := &models.LocalNote{
			LocalID:   uuid.New().String(),
			CreatedAt: remote.CreatedAt,
		}
		note.RefreshFrom(remote, now, fingerprint)

		if err := o.notes.SaveNote(ctx, note); err != nil {
			return false, fmt.Errorf("failed to save pulled note: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up local note: %w", err)
	}

	// Несинхронизированные локальные правки приоритетнее серверной копии.
	// Версия монотонна: не новее уже известной значит изменений нет
	if !pullable(local) || remote.Version <= local.RemoteVersion {
		return false, nil
	}

	_, err = o.notes.UpdateNote(ctx, local.LocalID, func(n *models.LocalNote) error {
		// Повторная проверка внутри транзакции: запись могли изменить после чтения
		if !pullable(n) || remote.Version <= n.RemoteVersion {
			return errSkipWrite
		}
		n.RefreshFrom(remote, now, fingerprint)
		return nil
	})
	if errors.Is(err, errSkipWrite) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to refresh note: %w", err)
	}
	return true, nil
}

func pullable(n *models.LocalNote) bool {
	return n.SyncStatus == models.StatusSynced && !n.Tombstone
}

// cleanupPhase purges tombstones and, when the remote listing is known,
// SYNCED notes whose server copy has been deleted.
func (o *Orchestrator) cleanupPhase(ctx context.Context, result *CycleResult, remoteIDs map[string]struct{}, pulled bool) {
	synced, err := o.notes.ListNotesByStatus(ctx, models.StatusSynced)
	if err != nil {
		o.logger.Warn("Failed to list synced notes", "error", err)
		result.Failed++
		return
	}

	purgeable := func(n *models.LocalNote) bool {
		if n.SyncStatus != models.StatusSynced {
			return false
		}
		if n.Tombstone {
			return true
		}
		if !pulled || !n.HasRemote() {
			return false
		}
		_, exists := remoteIDs[n.RemoteID]
		return !exists
	}

	for _, note := range synced {
		if !purgeable(note) {
			continue
		}

		deleted, err := o.notes.DeleteNoteIf(ctx, note.LocalID, purgeable)
		if err != nil && !errors.Is(err, storage.ErrNoteNotFound) {
			o.logger.Warn("Failed to purge note", "local_id", note.LocalID, "error", err)
			result.Failed++
			continue
		}
		if deleted {
			o.logger.Debug("Purged note", "local_id", note.LocalID, "tombstone", note.Tombstone)
			result.Purged++
		}
	}
}
