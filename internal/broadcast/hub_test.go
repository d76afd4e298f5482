package broadcast

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dial(t *testing.T, srvURL string) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srvURL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	return conn
}

func TestHub_BroadcastsToAllClients(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	c1 := dial(t, srv.URL)
	defer c1.Close(websocket.StatusNormalClosure, "")
	c2 := dial(t, srv.URL)
	defer c2.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	ev := events.New(events.KindReconnected)
	hub.Publish(context.Background(), ev)

	for _, c := range []*websocket.Conn{c1, c2} {
		readCtx, readCancel := context.WithTimeout(context.Background(), 2*time.Second)
		typ, data, err := c.Read(readCtx)
		readCancel()
		require.NoError(t, err)
		assert.Equal(t, websocket.MessageText, typ)

		var got events.Event
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, events.KindReconnected, got.Kind)
	}
}

func TestHub_ClientDisconnectIsRemoved(t *testing.T) {
	hub := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	c := dial(t, srv.URL)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close(websocket.StatusNormalClosure, "bye"))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishAfterCloseDoesNotBlock(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Close()
	hub.Close()

	done := make(chan struct{})
	go func() {
		for range defaultBufferSize * 2 {
			hub.Publish(context.Background(), events.New(events.KindSyncCompleted))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}
