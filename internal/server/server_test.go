package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/internal/config"
	"github.com/iudanet/notekeeper/internal/events"
	"github.com/iudanet/notekeeper/internal/server/handlers"
	"github.com/iudanet/notekeeper/pkg/api"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setupServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Server{
		Addr:   "127.0.0.1:0",
		DBPath: filepath.Join(t.TempDir(), "server.db"),
		JWT:    config.JWT{Secret: testSecret, TokenTTL: time.Hour},
		RateLimit: config.RateLimit{
			Requests: 1000,
			Window:   time.Minute,
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(ctx, cfg, "test", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	go s.hub.Run(ctx)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	token, _, err := handlers.GenerateAccessToken(handlers.JWTConfig{Secret: []byte(testSecret), TokenTTL: time.Hour}, "alice")
	require.NoError(t, err)

	return srv, token
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New(context.Background(), config.Server{DBPath: filepath.Join(t.TempDir(), "x.db")}, "test",
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestServer_HealthIsPublic(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health api.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)
}

func TestServer_NotesRequireToken(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/notes")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_EventsStream(t *testing.T) {
	srv, token := setupServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/events",
		&websocket.DialOptions{HTTPHeader: header})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	body, err := json.Marshal(api.CreateNoteRequest{Title: "live", Body: "hello"})
	require.NoError(t, err)

	// Подписка регистрируется асинхронно, поэтому создаём заметку, пока не придёт событие
	var created api.NoteDTO
	got := make(chan events.Event, 1)
	go func() {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var ev events.Event
		if json.Unmarshal(data, &ev) == nil {
			got <- ev
		}
	}()

	require.Eventually(t, func() bool {
		req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/notes", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			return false
		}
		_ = json.NewDecoder(resp.Body).Decode(&created)

		select {
		case ev := <-got:
			got <- ev
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 4*time.Second, 50*time.Millisecond)

	ev := <-got
	assert.Equal(t, events.KindNoteChanged, ev.Kind)
	assert.NotEmpty(t, ev.NoteID)
}
