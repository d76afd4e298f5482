// Package middleware contains the HTTP middleware chain of the server.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/notekeeper/internal/server/handlers"
)

// AuthMiddleware создает middleware для проверки JWT редактора.
// Идентификатор редактора кладётся в контекст запроса
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				logger.Warn("Missing or malformed Authorization header", "path", r.URL.Path)
				writeJSONError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, tokenString)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				writeJSONError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			logger.Debug("Editor authenticated", "editor", claims.Editor)

			next.ServeHTTP(w, r.WithContext(handlers.WithEditor(r.Context(), claims.Editor)))
		})
	}
}

// bearerToken извлекает токен из заголовка "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
