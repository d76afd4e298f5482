package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "notekeeper"

// EditorClaims представляет JWT claims редактора
type EditorClaims struct {
	Editor string `json:"editor"`
	jwt.RegisteredClaims
}

// JWTConfig содержит конфигурацию для JWT
type JWTConfig struct {
	Secret   []byte
	TokenTTL time.Duration
}

// GenerateAccessToken создает новый JWT для редактора.
// Нулевой TokenTTL означает бессрочный токен
func GenerateAccessToken(cfg JWTConfig, editor string) (string, time.Time, error) {
	if editor == "" {
		return "", time.Time{}, errors.New("editor is required")
	}

	now := time.Now()
	claims := EditorClaims{
		Editor: editor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   editor,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	var expiresAt time.Time
	if cfg.TokenTTL > 0 {
		expiresAt = now.Add(cfg.TokenTTL)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateAccessToken валидирует и парсит JWT редактора
func ValidateAccessToken(cfg JWTConfig, tokenString string) (*EditorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &EditorClaims{}, func(token *jwt.Token) (any, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*EditorClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Editor == "" {
		claims.Editor = claims.Subject
	}
	if claims.Editor == "" {
		return nil, errors.New("token has no editor")
	}

	return claims, nil
}
