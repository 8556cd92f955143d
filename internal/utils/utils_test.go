package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("sup3rsecret")
	require.NoError(t, err)

	assert.NotEqual(t, "sup3rsecret", hash)
	assert.True(t, CheckPasswordHash("sup3rsecret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateJWT(secret, "user-1", "provider")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "provider", claims.Role)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT([]byte("secret-a"), "user-1", "patient")
	require.NoError(t, err)

	_, err = ValidateJWT([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestJWT_EmptySecret(t *testing.T) {
	_, err := GenerateJWT(nil, "user-1", "patient")
	assert.Error(t, err)

	_, err = ValidateJWT(nil, "whatever")
	assert.Error(t, err)
}
