package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/notekeeper/internal/client/storage"
)

// ErrNotAuthenticated is returned when neither the config nor the local
// store provides a token.
var ErrNotAuthenticated = errors.New("not authenticated: run 'notekeeper login' or set NOTEKEEPER_TOKEN")

// VerifyFunc checks a token against the server.
type VerifyFunc func(ctx context.Context, token string) error

// Service предоставляет функции авторизации
type Service struct {
	store  storage.TokenStorage
	verify VerifyFunc
	logger *slog.Logger
	now    func() time.Time
}

// NewService создает новый сервис авторизации.
// verify может быть nil, тогда токен не проверяется на сервере
func NewService(store storage.TokenStorage, verify VerifyFunc, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		verify: verify,
		logger: logger,
		now:    time.Now,
	}
}

// Login validates the token, checks it against the server and stores it.
func (s *Service) Login(ctx context.Context, token string) (*TokenInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	info, err := ParseToken(token)
	if err != nil {
		return nil, err
	}
	if info.Expired(s.now()) {
		return nil, ErrTokenExpired
	}

	if s.verify != nil {
		if err := s.verify(ctx, token); err != nil {
			return nil, fmt.Errorf("token rejected by server: %w", err)
		}
	}

	if err := s.store.SaveToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	s.logger.Info("Logged in", "editor", info.Editor)
	return info, nil
}

// Logout удаляет сохранённый токен. Токен из конфигурации не затрагивается
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.DeleteToken(ctx); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// Token returns the token to use: override (from config or env) wins over
// the stored one.
func (s *Service) Token(ctx context.Context, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	token, err := s.store.GetToken(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// Current describes the token that would be used.
func (s *Service) Current(ctx context.Context, override string) (*TokenInfo, error) {
	token, err := s.Token(ctx, override)
	if err != nil {
		return nil, err
	}
	return ParseToken(token)
}
