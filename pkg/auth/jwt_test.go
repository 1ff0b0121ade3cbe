package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	validator, err := NewJWTValidator(JWTConfig{SecretKey: testSecret})
	require.NoError(t, err)

	t.Run("accepts a valid token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":   "acct-alice",
			"email": "alice@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		claims, err := validator.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "acct-alice", claims.AccountID)
		assert.Equal(t, "alice@example.com", claims.Email)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "acct-alice",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		_, err := validator.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{
			"sub": "acct-alice",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := validator.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := validator.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects a token without a subject", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := validator.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("enforces the issuer when configured", func(t *testing.T) {
		strict, err := NewJWTValidator(JWTConfig{SecretKey: testSecret, Issuer: "snaptales"})
		require.NoError(t, err)

		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "acct-alice",
			"iss": "someone-else",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err = strict.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestNewJWTValidatorRequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}
