// Package control serves the local daemon endpoint used by the CLI to read
// sync status, force a cycle and follow live events.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	clientsync "github.com/iudanet/notekeeper/internal/client/sync"
	"github.com/iudanet/notekeeper/internal/server/middleware"
	"github.com/iudanet/notekeeper/pkg/api"
)

//go:generate moq -out syncer_mock.go . Syncer

const (
	StatusPath = "/status"
	SyncPath   = "/sync"
	EventsPath = "/events"

	shutdownTimeout = 5 * time.Second
)

// Syncer is the part of the orchestrator exposed over the control endpoint.
type Syncer interface {
	Status(ctx context.Context) (*clientsync.Status, error)
	ForceSyncNow(ctx context.Context) (*clientsync.CycleResult, error)
}

// Connectivity reports the last known reachability state.
type Connectivity interface {
	IsOnline() bool
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	clientsync.Status
	Online bool `json:"online"`
}

// Server is the daemon's local HTTP endpoint.
type Server struct {
	syncer  Syncer
	online  Connectivity
	events  http.Handler
	logger  *slog.Logger
	http    *http.Server
	handler http.Handler
}

// NewServer creates the control server. events may be nil, then /events is
// not registered.
func NewServer(addr string, syncer Syncer, online Connectivity, events http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		syncer: syncer,
		online: online,
		events: events,
		logger: logger,
	}
	s.handler = s.routes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+StatusPath, s.handleStatus)
	mux.HandleFunc("POST "+SyncPath, s.handleSync)
	if s.events != nil {
		mux.Handle("GET "+EventsPath, s.events)
	}

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingWithSkip(s.logger, []string{StatusPath}),
	)
}

// Handler returns the root HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Control endpoint listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("control server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("control server shutdown: %w", err)
	}
	return <-errCh
}

// handleStatus обрабатывает GET /status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.syncer.Status(r.Context())
	if err != nil {
		s.logger.Error("Failed to read sync status", "error", err)
		s.sendError(w, "failed to read sync status", http.StatusInternalServerError)
		return
	}

	resp := StatusResponse{Status: *status}
	if s.online != nil {
		resp.Online = s.online.IsOnline()
	}
	s.sendJSON(w, resp, http.StatusOK)
}

// handleSync обрабатывает POST /sync: цикл выполняется синхронно, ответ содержит его итог
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	result, err := s.syncer.ForceSyncNow(r.Context())
	if err != nil {
		if errors.Is(err, clientsync.ErrSyncInProgress) {
			s.sendError(w, err.Error(), http.StatusConflict)
			return
		}
		s.logger.Error("Forced sync failed", "error", err)
		s.sendError(w, "sync failed", http.StatusInternalServerError)
		return
	}
	s.sendJSON(w, result, http.StatusOK)
}

func (s *Server) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	s.sendJSON(w, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
