// Package events defines the notifications exchanged between the sync engine
// and whoever wants to observe it (scheduler, live-update broadcasters).
package events

import (
	"context"
	"time"
)

// Kind identifies an event type.
type Kind string

const (
	// KindReconnected fires on an offline→online transition.
	KindReconnected Kind = "reconnected"
	// KindDisconnected fires on an online→offline transition.
	KindDisconnected Kind = "disconnected"
	// KindNoteChanged fires after a note was created or updated in the authoritative store.
	KindNoteChanged Kind = "note.changed"
	// KindNoteDeleted fires after a note was removed from the authoritative store.
	KindNoteDeleted Kind = "note.deleted"
	// KindSyncCompleted fires at the end of every sync cycle.
	KindSyncCompleted Kind = "sync.completed"
	// KindSyncConflict fires when a version-checked push is rejected.
	KindSyncConflict Kind = "sync.conflict"
)

// Event is a single notification.
type Event struct {
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
	Kind    Kind           `json:"kind"`
	NoteID  string         `json:"note_id,omitempty"`
}

// New creates an event of the given kind stamped with the current time.
func New(kind Kind) Event {
	return Event{Kind: kind, At: time.Now().UTC()}
}

// Sink receives published events. Implementations must not block for long:
// publishers call Publish inline.
type Sink interface {
	Publish(ctx context.Context, ev Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, ev Event)

// Publish calls f(ctx, ev).
func (f SinkFunc) Publish(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// Nop discards every event.
var Nop Sink = SinkFunc(func(context.Context, Event) {})

// Fanout delivers each event to every sink in order. Nil sinks are skipped.
type Fanout []Sink

// Publish implements Sink.
func (f Fanout) Publish(ctx context.Context, ev Event) {
	for _, s := range f {
		if s != nil {
			s.Publish(ctx, ev)
		}
	}
}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop
	}
	return s
}
