// Package auth keeps the editor access token used to talk to the note
// server.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned when a token's exp claim is in the past.
var ErrTokenExpired = errors.New("access token has expired")

// editorClaims повторяет claims, которые выдаёт сервер
type editorClaims struct {
	Editor string `json:"editor"`
	jwt.RegisteredClaims
}

// TokenInfo describes a token without verifying its signature.
type TokenInfo struct {
	IssuedAt  time.Time
	ExpiresAt time.Time // нулевое значение: бессрочный токен
	Editor    string
	Issuer    string
}

// Expired reports whether the token is past its expiry at now.
func (i *TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// ParseToken decodes the claims of an editor token. The signature is not
// checked here: only the server holds the secret.
func ParseToken(token string) (*TokenInfo, error) {
	var claims editorClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}

	info := &TokenInfo{
		Editor: claims.Editor,
		Issuer: claims.Issuer,
	}
	if info.Editor == "" {
		info.Editor = claims.Subject
	}
	if info.Editor == "" {
		return nil, errors.New("token has no editor")
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}

	return info, nil
}
