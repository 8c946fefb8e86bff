package authUtils

import (
	"regexp"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQRToken(t *testing.T) {
	urlSafe := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	token := GenerateQRToken(24)
	assert.Len(t, token, 24)
	assert.Regexp(t, urlSafe, token)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := GenerateQRToken(24)
		assert.False(t, seen[tok], "token collision: %s", tok)
		seen[tok] = true
	}
}

func TestGenerateAndSetToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateAndSetToken("abc123", "official")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "abc123", claims["user_id"])
	assert.Equal(t, "official", claims["role"])
}

func TestGenerateAndSetTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateAndSetToken("abc123", "citizen")
	assert.Error(t, err)
}
