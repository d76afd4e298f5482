package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	got []Event
}

func (r *recorder) Publish(_ context.Context, ev Event) {
	r.got = append(r.got, ev)
}

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	f := Fanout{a, nil, b}

	ev := New(KindReconnected)
	f.Publish(context.Background(), ev)

	assert.Equal(t, []Event{ev}, a.got)
	assert.Equal(t, []Event{ev}, b.got)
}

func TestOrNop(t *testing.T) {
	assert.NotPanics(t, func() {
		OrNop(nil).Publish(context.Background(), New(KindDisconnected))
	})

	r := &recorder{}
	OrNop(r).Publish(context.Background(), New(KindSyncCompleted))
	assert.Len(t, r.got, 1)
}

func TestNew(t *testing.T) {
	ev := New(KindNoteChanged)
	assert.Equal(t, KindNoteChanged, ev.Kind)
	assert.False(t, ev.At.IsZero())
}
