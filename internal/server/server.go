// Package server assembles the authoritative note server: storage, conflict
// resolver, HTTP routes and the live event hub.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/notekeeper/internal/broadcast"
	"github.com/iudanet/notekeeper/internal/config"
	"github.com/iudanet/notekeeper/internal/server/conflict"
	"github.com/iudanet/notekeeper/internal/server/handlers"
	"github.com/iudanet/notekeeper/internal/server/middleware"
	"github.com/iudanet/notekeeper/internal/server/storage/sqlite"
)

const (
	healthPath      = "/api/v1/health"
	shutdownTimeout = 10 * time.Second
)

// Server owns every long-lived component of the authoritative side.
type Server struct {
	logger   *slog.Logger
	store    *sqlite.Storage
	hub      *broadcast.Hub
	limiter  *middleware.RateLimiter
	resolver *conflict.Resolver
	http     *http.Server
}

// New opens the database and wires handlers. Call Run to serve and Close to
// release resources.
func New(ctx context.Context, cfg config.Server, version string, logger *slog.Logger) (*Server, error) {
	if err := cfg.RequireSecret(); err != nil {
		return nil, err
	}

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	hub := broadcast.NewHub(logger.With("component", "hub"))
	resolver := conflict.NewResolver(store, hub, logger.With("component", "resolver"))
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)

	s := &Server{
		logger:   logger,
		store:    store,
		hub:      hub,
		limiter:  limiter,
		resolver: resolver,
	}

	jwtCfg := handlers.JWTConfig{
		Secret:   []byte(cfg.JWT.Secret),
		TokenTTL: cfg.JWT.TokenTTL,
	}

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(jwtCfg, version),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	return s, nil
}

// routes собирает маршруты: recovery -> logging -> auth -> rate limit -> handler
func (s *Server) routes(jwtCfg handlers.JWTConfig, version string) http.Handler {
	mux := http.NewServeMux()

	protected := func(h http.Handler) http.Handler {
		return middleware.Chain(h,
			middleware.AuthMiddleware(s.logger, jwtCfg),
			middleware.RateLimitMiddleware(s.limiter, s.logger),
		)
	}

	health := handlers.NewHealthHandler(s.logger, s.store, version)
	mux.Handle("GET "+healthPath, middleware.RateLimitMiddleware(s.limiter, s.logger)(http.HandlerFunc(health.Health)))

	handlers.NewNotesHandler(s.logger, s.resolver).Register(mux, protected)
	mux.Handle("GET /api/v1/events", protected(s.hub))

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingWithSkip(s.logger, []string{healthPath}),
	)
}

// Handler returns the root HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		s.logger.Info("Server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server")

		// Закрываем websocket-подписчиков до Shutdown: hijacked соединения он не ждёт
		s.hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases the rate limiter and the database.
func (s *Server) Close() error {
	s.limiter.Stop()
	s.hub.Close()
	return s.store.Close()
}
