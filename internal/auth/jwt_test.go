package auth

import (
	"testing"
	"time"

	"celestial-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager(config.AuthConfig{JWTSecret: testSecret, TokenExpiration: time.Hour})
	require.NoError(t, err)

	token, err := m.Generate("ops", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestTokenRejections(t *testing.T) {
	m, err := NewTokenManager(config.AuthConfig{JWTSecret: testSecret, TokenExpiration: time.Hour})
	require.NoError(t, err)
	other, err := NewTokenManager(config.AuthConfig{JWTSecret: testSecret + "x", TokenExpiration: time.Hour})
	require.NoError(t, err)

	foreign, err := other.Generate("ops", RoleAdmin)
	require.NoError(t, err)
	_, err = m.Validate(foreign)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = m.Validate(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(unsigned)
	assert.Error(t, err)

	_, err = m.Validate("not-a-token")
	assert.Error(t, err)
}

func TestNewTokenManagerValidation(t *testing.T) {
	_, err := NewTokenManager(config.AuthConfig{TokenExpiration: time.Hour})
	assert.Error(t, err)

	_, err = NewTokenManager(config.AuthConfig{JWTSecret: "short", TokenExpiration: time.Hour})
	assert.Error(t, err)

	_, err = NewTokenManager(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err)
}
