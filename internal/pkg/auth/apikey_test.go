package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, APIKeyPrefix))
	assert.Greater(t, len(key), APIKeyPrefixLen)

	other, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "os_abcde", KeyPrefix("os_abcdefghijkl"))
	assert.Equal(t, "os_a", KeyPrefix("os_a"))
}

func TestHashAndCheckAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)

	hash, err := HashAPIKey(key)
	require.NoError(t, err)
	assert.NotEqual(t, key, hash)

	assert.True(t, CheckAPIKey(hash, key))
	assert.False(t, CheckAPIKey(hash, key+"x"))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}
