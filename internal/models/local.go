package models

import (
	"fmt"
	"time"
)

// SyncStatus is the state of a local staging record relative to the authoritative store.
type SyncStatus string

const (
	// StatusPendingSync: локальные изменения ещё не отправлены на сервер
	StatusPendingSync SyncStatus = "PENDING_SYNC"
	// StatusPendingDelete: запись удалена офлайн, удаление ещё не применено на сервере
	StatusPendingDelete SyncStatus = "PENDING_DELETE"
	// StatusSynced: запись совпадает с авторитетной копией (или является tombstone)
	StatusSynced SyncStatus = "SYNCED"
)

// Valid reports whether s is one of the known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case StatusPendingSync, StatusPendingDelete, StatusSynced:
		return true
	}
	return false
}

// ParseSyncStatus converts a string into a SyncStatus.
func ParseSyncStatus(s string) (SyncStatus, error) {
	status := SyncStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown sync status %q", s)
	}
	return status, nil
}

// LocalNote представляет локальную staging-запись клиента.
// Создаётся при офлайн-записи, изменяется на месте при последующих правках
// и становится SYNCED только после успешной отправки на сервер.
type LocalNote struct {
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"` // nil, если ещё ни разу не синхронизирована
	LocalID           string     `json:"local_id"`
	RemoteID          string     `json:"remote_id,omitempty"` // пусто до первого успешного push
	Title             string     `json:"title"`
	Body              string     `json:"body"`
	RenderedBody      string     `json:"rendered_body"`
	TagCSV            string     `json:"tag_csv"`
	SyncStatus        SyncStatus `json:"sync_status"`
	SyncedFingerprint string     `json:"synced_fingerprint,omitempty"` // отпечаток содержимого на момент последней синхронизации
	RemoteVersion     int64      `json:"remote_version"`               // последняя увиденная версия авторитетной записи
	Revision          int64      `json:"revision"`                     // счётчик локальных правок
	Tombstone         bool       `json:"tombstone"`                    // удаление применено на сервере, ждёт физической очистки
}

// Tags returns the decoded tag set.
func (n *LocalNote) Tags() []string {
	return DecodeTags(n.TagCSV)
}

// HasRemote reports whether the record has been pushed at least once.
func (n *LocalNote) HasRemote() bool {
	return n.RemoteID != ""
}

// Visible reports whether the record should appear in user-facing listings.
func (n *LocalNote) Visible() bool {
	return n.SyncStatus != StatusPendingDelete && !n.Tombstone
}

// Fields returns the content of the record as a full NoteFields set.
func (n *LocalNote) Fields() NoteFields {
	return FieldsOf(n.Title, n.Body, n.Tags())
}

// MarkSynced records a successful exchange with the authoritative store.
func (n *LocalNote) MarkSynced(at time.Time, remoteVersion int64, fingerprint string) {
	n.SyncStatus = StatusSynced
	n.LastSyncedAt = &at
	n.RemoteVersion = remoteVersion
	n.SyncedFingerprint = fingerprint
}

// RefreshFrom overwrites the content fields from an authoritative note.
// Callers must only use it on SYNCED records.
func (n *LocalNote) RefreshFrom(remote *Note, at time.Time, fingerprint string) {
	n.RemoteID = remote.ID
	n.Title = remote.Title
	n.Body = remote.Body
	n.RenderedBody = remote.RenderedBody
	n.TagCSV = EncodeTags(remote.Tags)
	n.UpdatedAt = at
	n.MarkSynced(at, remote.Version, fingerprint)
}

// Clone returns a copy of the record.
func (n *LocalNote) Clone() *LocalNote {
	c := *n
	if n.LastSyncedAt != nil {
		t := *n.LastSyncedAt
		c.LastSyncedAt = &t
	}
	return &c
}
