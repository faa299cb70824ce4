package services

import (
	"testing"
	"time"

	"store-ratings/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(expiry time.Duration) *AuthService {
	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: expiry,
	}
	return NewAuthService(cfg, zerolog.Nop())
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestAuthService(time.Hour)

	token, err := svc.GenerateToken(42, "owner@example.com", "owner")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, "owner", claims.Role)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := newTestAuthService(-time.Hour)

	token, err := svc.GenerateToken(1, "user@example.com", "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := newTestAuthService(time.Hour)
	verifier := NewAuthService(&config.Config{
		JWTSecret: "a-different-secret",
		JWTExpiry: time.Hour,
	}, zerolog.Nop())

	token, err := issuer.GenerateToken(1, "user@example.com", "user")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newTestAuthService(time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.ValidateToken(tok)
		assert.Error(t, err, "token %q should not validate", tok)
	}
}
