package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:   []byte("test-secret-key-that-is-long-enough!!"),
		TokenTTL: time.Hour,
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	cfg := testJWTConfig()

	token, expiresAt, err := GenerateAccessToken(cfg, "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Editor)
	assert.Equal(t, "alice", claims.Subject)
}

func TestGenerateAccessToken_NoExpiry(t *testing.T) {
	cfg := testJWTConfig()
	cfg.TokenTTL = 0

	token, expiresAt, err := GenerateAccessToken(cfg, "bot")
	require.NoError(t, err)
	assert.True(t, expiresAt.IsZero())

	claims, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestGenerateAccessToken_EmptyEditor(t *testing.T) {
	_, _, err := GenerateAccessToken(testJWTConfig(), "")
	assert.Error(t, err)
}

func TestValidateAccessToken_Invalid(t *testing.T) {
	cfg := testJWTConfig()

	valid, _, err := GenerateAccessToken(cfg, "alice")
	require.NoError(t, err)

	other := cfg
	other.Secret = []byte("another-secret-key-that-is-long-enough")

	past := time.Now().Add(-time.Hour)
	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, EditorClaims{
		Editor: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(past),
		},
	}).SignedString(cfg.Secret)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, EditorClaims{Editor: "mallory"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		cfg   JWTConfig
		name  string
		token string
	}{
		{name: "garbage", cfg: cfg, token: "not-a-token"},
		{name: "wrong secret", cfg: other, token: valid},
		{name: "expired", cfg: cfg, token: expiredToken},
		{name: "alg none", cfg: cfg, token: noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAccessToken(tt.cfg, tt.token)
			assert.Error(t, err)
		})
	}
}
