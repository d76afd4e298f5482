package cli

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/notekeeper/internal/client/api"
	"github.com/iudanet/notekeeper/internal/config"
	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server"
	"github.com/iudanet/notekeeper/internal/server/handlers"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// newRemote поднимает настоящий сервер в памяти процесса и возвращает клиента редактора
func newRemote(t *testing.T, editor string) (*api.Client, string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := config.Server{
		Addr:      "127.0.0.1:0",
		DBPath:    filepath.Join(t.TempDir(), "server.db"),
		JWT:       config.JWT{Secret: testSecret, TokenTTL: time.Hour},
		RateLimit: config.RateLimit{Requests: 1000, Window: time.Minute},
	}
	s, err := server.New(ctx, cfg, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	token, _, err := handlers.GenerateAccessToken(handlers.JWTConfig{Secret: []byte(testSecret), TokenTTL: time.Hour}, editor)
	require.NoError(t, err)

	return api.NewClient(srv.URL, token), srv.URL
}

func seedRemote(t *testing.T, remote *api.Client) *models.Note {
	t.Helper()

	note, err := remote.Create(context.Background(), models.FieldsOf("Plan", "draft", []string{"work"}))
	require.NoError(t, err)
	return note
}

func ptr(s string) *string { return &s }

func TestCli_runRemoteGet(t *testing.T) {
	remote, _ := newRemote(t, "alice")
	note := seedRemote(t, remote)

	var out testOutput
	c := New(newTestIO(&out), nil, nil, remote, nil)

	require.NoError(t, c.runRemoteGet(context.Background(), note.ID))
	assert.Contains(t, out.String(), "Version: 1")
	assert.Contains(t, out.String(), "Editor:  alice")

	err := c.runRemoteGet(context.Background(), "missing")
	assert.EqualError(t, err, "note not found with ID: missing")
}

func TestCli_runRemoteUpdate(t *testing.T) {
	remote, _ := newRemote(t, "alice")
	note := seedRemote(t, remote)
	ctx := context.Background()

	var out testOutput
	c := New(newTestIO(&out), nil, nil, remote, nil)

	require.NoError(t, c.runRemoteUpdate(ctx, note.ID, remoteEdit{
		editOptions: editOptions{body: ptr("final")},
		expected:    1,
	}))
	assert.Contains(t, out.String(), "to version 2")

	// вторая правка основана на устаревшей версии
	out.Reset()
	err := c.runRemoteUpdate(ctx, note.ID, remoteEdit{
		editOptions: editOptions{title: ptr("Other plan")},
		expected:    1,
	})
	require.ErrorIs(t, err, models.ErrVersionConflict)

	output := out.String()
	assert.Contains(t, output, "Conflict: expected version 1, server is at version 2")
	assert.Contains(t, output, "Differs in:     title")
	assert.Contains(t, output, "Retry with --expected 2")

	current, err := remote.Get(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan", current.Title)
	assert.Equal(t, int64(2), current.Version)
}

func TestCli_runRemoteForce(t *testing.T) {
	remote, _ := newRemote(t, "bob")
	note := seedRemote(t, remote)

	var out testOutput
	c := New(newTestIO(&out), nil, nil, remote, nil)

	require.NoError(t, c.runRemoteForce(context.Background(), note.ID, editOptions{tags: []string{"done"}}))
	assert.Contains(t, out.String(), "now at version 2")

	current, err := remote.Get(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, current.Tags)
	assert.Equal(t, "bob", current.LastEditor)
}

func TestCli_runRemoteConflict(t *testing.T) {
	remote, _ := newRemote(t, "alice")
	note := seedRemote(t, remote)

	var out testOutput
	c := New(newTestIO(&out), nil, nil, remote, nil)

	require.NoError(t, c.runRemoteConflict(context.Background(), note.ID, remoteEdit{
		editOptions: editOptions{body: ptr("draft")},
		expected:    1,
	}))
	assert.Contains(t, out.String(), "No conflict: version 1 is current")

	current, err := remote.Get(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), current.Version)
}
