package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("local|alice", "alice@example.com", "Alice", "huddle", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "huddle", testSecret)
	require.NoError(t, err)
	assert.Equal(t, "local|alice", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("local|alice", "", "", "huddle", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "huddle", "ffffffffffffffffffffffffffffffff")
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("local|alice", "", "", "huddle", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "huddle", testSecret)
	assert.Error(t, err)
}

func TestParseToken_WrongIssuer(t *testing.T) {
	token, err := GenerateToken("local|alice", "", "", "someone-else", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "huddle", testSecret)
	assert.Error(t, err)
}

func TestParseToken_MissingSubject(t *testing.T) {
	token, err := GenerateToken("", "", "", "huddle", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "huddle", testSecret)
	assert.Error(t, err)
}
