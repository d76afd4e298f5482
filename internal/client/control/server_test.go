package control

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientsync "github.com/iudanet/notekeeper/internal/client/sync"
	"github.com/iudanet/notekeeper/internal/logger"
)

type staticOnline bool

func (o staticOnline) IsOnline() bool { return bool(o) }

func newTestControl(t *testing.T, syncer Syncer, events http.Handler) *Client {
	t.Helper()

	srv := NewServer("127.0.0.1:0", syncer, staticOnline(true), events, logger.Discard())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return NewClient(ts.URL)
}

func TestControl_Status(t *testing.T) {
	lastSync := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	syncer := &SyncerMock{
		StatusFunc: func(ctx context.Context) (*clientsync.Status, error) {
			return &clientsync.Status{
				LastSyncTime:     lastSync,
				PendingSyncCount: 2,
				TotalSyncedCount: 5,
				LastResult:       &clientsync.CycleResult{Pushed: 2},
			}, nil
		},
	}

	client := newTestControl(t, syncer, nil)

	status, err := client.Status(context.Background())
	require.NoError(t, err)

	assert.True(t, status.Online)
	assert.Equal(t, 2, status.PendingSyncCount)
	assert.Equal(t, 5, status.TotalSyncedCount)
	assert.True(t, lastSync.Equal(status.LastSyncTime))
	require.NotNil(t, status.LastResult)
	assert.Equal(t, 2, status.LastResult.Pushed)
	assert.Len(t, syncer.StatusCalls(), 1)
}

func TestControl_StatusError(t *testing.T) {
	syncer := &SyncerMock{
		StatusFunc: func(ctx context.Context) (*clientsync.Status, error) {
			return nil, errors.New("storage is closed")
		},
	}

	client := newTestControl(t, syncer, nil)

	_, err := client.Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestControl_Sync(t *testing.T) {
	tests := []struct {
		name      string
		result    *clientsync.CycleResult
		err       error
		wantErrIs error
		wantErr   bool
	}{
		{
			name:   "cycle runs",
			result: &clientsync.CycleResult{Pushed: 1, Pulled: 3, Priority: true},
		},
		{
			name:      "busy",
			err:       clientsync.ErrSyncInProgress,
			wantErr:   true,
			wantErrIs: clientsync.ErrSyncInProgress,
		},
		{
			name:    "unexpected error",
			err:     errors.New("boom"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &SyncerMock{
				ForceSyncNowFunc: func(ctx context.Context) (*clientsync.CycleResult, error) {
					return tt.result, tt.err
				},
			}
			client := newTestControl(t, syncer, nil)

			got, err := client.Sync(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.result.Pushed, got.Pushed)
			assert.Equal(t, tt.result.Pulled, got.Pulled)
			assert.True(t, got.Priority)
			assert.Len(t, syncer.ForceSyncNowCalls(), 1)
		})
	}
}

func TestControl_Routes(t *testing.T) {
	events := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		events     http.Handler
		method     string
		path       string
		wantStatus int
	}{
		{name: "events registered", events: events, method: http.MethodGet, path: EventsPath, wantStatus: http.StatusTeapot},
		{name: "events disabled", method: http.MethodGet, path: EventsPath, wantStatus: http.StatusNotFound},
		{name: "sync requires POST", method: http.MethodGet, path: SyncPath, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer("127.0.0.1:0", &SyncerMock{}, nil, tt.events, logger.Discard())

			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestControl_Run(t *testing.T) {
	srv := NewServer("127.0.0.1:0", &SyncerMock{}, nil, nil, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestNewClient_BaseURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:7070", NewClient("127.0.0.1:7070").baseURL)
	assert.Equal(t, "http://localhost:7070", NewClient("http://localhost:7070/").baseURL)
}
