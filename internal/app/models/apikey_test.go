package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAPIKeyHasPermission(t *testing.T) {
	key := APIKey{Permissions: []string{PermStudentsRead, PermAttendanceWrite}}

	assert.True(t, key.HasPermission(PermStudentsRead))
	assert.True(t, key.HasPermission(PermAttendanceWrite))
	assert.False(t, key.HasPermission(PermAdminWrite))
	assert.False(t, key.HasPermission(""))
}

func TestAPIKeyIsUsable(t *testing.T) {
	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		key  APIKey
		want bool
	}{
		{"active without expiry", APIKey{IsActive: true}, true},
		{"active with future expiry", APIKey{IsActive: true, ExpiresAt: &future}, true},
		{"active but expired", APIKey{IsActive: true, ExpiresAt: &past}, false},
		{"inactive", APIKey{IsActive: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.IsUsable(now))
		})
	}
}

func TestIsKnownPermission(t *testing.T) {
	for _, p := range AvailablePermissions {
		assert.True(t, IsKnownPermission(p), p)
	}
	assert.False(t, IsKnownPermission("students:delete"))
}
