package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// APIKeyPrefix marks all keys issued by this application.
const APIKeyPrefix = "os_"

// APIKeyPrefixLen is the number of leading characters stored for lookup.
const APIKeyPrefixLen = 8

// GenerateAPIKey creates a new raw API key: "os_" followed by a
// URL-safe base64 encoding of 32 random bytes.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return APIKeyPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// KeyPrefix returns the lookup prefix of a raw key.
func KeyPrefix(rawKey string) string {
	if len(rawKey) < APIKeyPrefixLen {
		return rawKey
	}
	return rawKey[:APIKeyPrefixLen]
}

// HashAPIKey hashes a raw key for storage. The raw key is never persisted.
func HashAPIKey(rawKey string) (string, error) {
	return HashPassword(rawKey)
}

// CheckAPIKey verifies a raw key against its stored hash.
func CheckAPIKey(hashedKey, rawKey string) bool {
	return CheckPassword(hashedKey, rawKey)
}
