package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/internal/broadcast"
	"github.com/iudanet/notekeeper/internal/config"
	"github.com/iudanet/notekeeper/internal/events"
	"github.com/iudanet/notekeeper/internal/logger"
	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server"
	"github.com/iudanet/notekeeper/internal/server/handlers"
	"github.com/iudanet/notekeeper/internal/validation"
	"github.com/iudanet/notekeeper/pkg/api"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func strPtr(s string) *string { return &s }

// newTestServer поднимает настоящий сервер поверх временной sqlite базы
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Server{
		DBPath:    filepath.Join(t.TempDir(), "server.db"),
		JWT:       config.JWT{Secret: testSecret, TokenTTL: time.Hour},
		RateLimit: config.RateLimit{Requests: 1000, Window: time.Minute},
	}

	s, err := server.New(ctx, cfg, "test", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, editor string) *Client {
	t.Helper()

	srv := newTestServer(t)
	token, _, err := handlers.GenerateAccessToken(handlers.JWTConfig{Secret: []byte(testSecret), TokenTTL: time.Hour}, editor)
	require.NoError(t, err)
	return NewClient(srv.URL, token)
}

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/", "tok")

	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.Equal(t, "tok", client.token)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestClient_Health(t *testing.T) {
	srv := newTestServer(t)

	// health доступен без токена
	resp, err := NewClient(srv.URL, "").Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestClient_NoteLifecycle(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, "alice")

	created, err := client.Create(ctx, models.FieldsOf("Draft", "*hi*", []string{"b", "a"}))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, "alice", created.LastEditor)
	assert.Equal(t, []string{"a", "b"}, created.Tags)

	got, err := client.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	updated, err := client.UpdateWithCheck(ctx, created.ID, 1, models.NoteFields{Title: strPtr("Final")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "*hi*", updated.Body)

	put, err := client.Put(ctx, created.ID, models.NoteFields{Body: strPtr("overwritten")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), put.Version)

	all, err := client.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, client.Delete(ctx, created.ID))

	_, err = client.Get(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
	assert.ErrorIs(t, client.Delete(ctx, created.ID), models.ErrNoteNotFound)
}

func TestClient_UpdateWithCheck_Conflict(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, "alice")

	created, err := client.Create(ctx, models.FieldsOf("X", "", nil))
	require.NoError(t, err)
	_, err = client.UpdateWithCheck(ctx, created.ID, 1, models.NoteFields{Body: strPtr("first")})
	require.NoError(t, err)

	_, err = client.UpdateWithCheck(ctx, created.ID, 1, models.NoteFields{Body: strPtr("second")})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrVersionConflict)

	var ce *models.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, int64(1), ce.ExpectedVersion)
	assert.Equal(t, int64(2), ce.CurrentVersion)

	d, err := client.DescribeConflict(ctx, created.ID, 1, models.NoteFields{Body: strPtr("second")})
	require.NoError(t, err)
	assert.True(t, d.HasConflict)
	assert.Equal(t, "first", d.Current.Body)
	assert.Equal(t, "second", d.Incoming.Body)
	assert.Equal(t, "alice", d.Incoming.Editor)

	forced, err := client.ForceUpdate(ctx, created.ID, models.NoteFields{Body: strPtr("second")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), forced.Version)
}

// TestClient_ClearTags проверяет, что пустой набор тегов доходит до сервера
// и очищает теги, а отсутствующие теги остаются без изменений
func TestClient_ClearTags(t *testing.T) {
	tests := []struct {
		clear func(ctx context.Context, c *Client, id string) (*models.Note, error)
		name  string
	}{
		{
			name: "put",
			clear: func(ctx context.Context, c *Client, id string) (*models.Note, error) {
				return c.Put(ctx, id, models.FieldsOf("t", "b", []string{}))
			},
		},
		{
			name: "update with check",
			clear: func(ctx context.Context, c *Client, id string) (*models.Note, error) {
				return c.UpdateWithCheck(ctx, id, 1, models.NoteFields{Tags: []string{}})
			},
		},
		{
			name: "force update",
			clear: func(ctx context.Context, c *Client, id string) (*models.Note, error) {
				return c.ForceUpdate(ctx, id, models.NoteFields{Tags: []string{}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client := newTestClient(t, "alice")

			created, err := client.Create(ctx, models.FieldsOf("t", "b", []string{"a", "b"}))
			require.NoError(t, err)

			updated, err := tt.clear(ctx, client, created.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), updated.Version)
			assert.Empty(t, updated.Tags)

			got, err := client.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Empty(t, got.Tags)

			// правка без тегов их не трогает
			_, err = client.UpdateWithCheck(ctx, created.ID, 2, models.NoteFields{Title: strPtr("renamed")})
			require.NoError(t, err)
			_, err = client.ForceUpdate(ctx, created.ID, models.NoteFields{Tags: []string{"c"}})
			require.NoError(t, err)
			_, err = client.UpdateWithCheck(ctx, created.ID, 4, models.NoteFields{Body: strPtr("new body")})
			require.NoError(t, err)

			got, err = client.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"c"}, got.Tags)
			assert.Equal(t, "renamed", got.Title)
		})
	}
}

func TestClient_DescribeConflict_ClearTags(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, "alice")

	created, err := client.Create(ctx, models.FieldsOf("t", "b", []string{"a"}))
	require.NoError(t, err)
	_, err = client.UpdateWithCheck(ctx, created.ID, 1, models.NoteFields{Body: strPtr("b2")})
	require.NoError(t, err)

	d, err := client.DescribeConflict(ctx, created.ID, 1, models.NoteFields{Tags: []string{}})
	require.NoError(t, err)
	assert.True(t, d.HasConflict)
	assert.Contains(t, d.DivergentFields, "tags")
	assert.Empty(t, d.Incoming.Tags)
}

// TestClient_CreateEscapedBody проверяет, что тело допустимого размера
// проходит на сервер, даже когда JSON экранирование его раздувает
func TestClient_CreateEscapedBody(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, "alice")

	body := strings.Repeat("a<b\n", 250000)
	require.NoError(t, validation.ValidateBody(body))

	created, err := client.Create(ctx, models.FieldsOf("escaped", body, nil))
	require.NoError(t, err)
	assert.Len(t, created.Body, len(body))

	worst := strings.Repeat("&", validation.MaxBodyBytes)
	updated, err := client.UpdateWithCheck(ctx, created.ID, 1, models.NoteFields{Body: &worst})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := newTestServer(t)

	_, err := NewClient(srv.URL, "bad-token").ListAll(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		check  func(t *testing.T, err error)
		name   string
		body   string
		status int
	}{
		{
			name:   "conflict body",
			status: http.StatusConflict,
			body:   `{"error":"version conflict","id":"n1","expected_version":3,"current_version":4}`,
			check: func(t *testing.T, err error) {
				var ce *models.ConflictError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, int64(4), ce.CurrentVersion)
			},
		},
		{
			name:   "conflict without body",
			status: http.StatusConflict,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, models.ErrVersionConflict)
			},
		},
		{
			name:   "bad request message",
			status: http.StatusBadRequest,
			body:   `{"error":"Bad Request","message":"title cannot be empty"}`,
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusBadRequest, se.StatusCode)
				assert.Equal(t, "title cannot be empty", se.Message)
			},
		},
		{
			name:   "plain text error",
			status: http.StatusBadGateway,
			body:   "upstream down\n",
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "upstream down")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "tok").Get(context.Background(), "n1")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_SendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/notes/a%2Fb", r.URL.EscapedPath())
		_ = json.NewEncoder(w).Encode(api.NoteDTO{ID: "a/b", Version: 1})
	}))
	defer srv.Close()

	note, err := NewClient(srv.URL, "tok").Get(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", note.ID)
}

func TestClient_Subscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := broadcast.NewHub(logger.Discard())
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		hub.ServeHTTP(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	received := make(chan events.Event, 1)
	subCtx, subCancel := context.WithCancel(ctx)
	defer subCancel()
	done := make(chan error, 1)
	go func() {
		done <- NewClient(srv.URL, "tok").Subscribe(subCtx, func(ev events.Event) {
			select {
			case received <- ev:
			default:
			}
			subCancel()
		})
	}()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 3*time.Second, 10*time.Millisecond)
	hub.Publish(ctx, events.Event{Kind: events.KindNoteChanged, NoteID: "n1"})

	select {
	case ev := <-received:
		assert.Equal(t, events.KindNoteChanged, ev.Kind)
		assert.Equal(t, "n1", ev.NoteID)
	case <-ctx.Done():
		t.Fatal("event not received")
	}

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("Subscribe did not return after cancel")
	}
}
