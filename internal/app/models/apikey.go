package models

import "time"

// API key permission catalog. Keys act only within granted permissions.
const (
	PermStudentsRead     = "students:read"
	PermStudentsWrite    = "students:write"
	PermAttendanceRead   = "attendance:read"
	PermAttendanceWrite  = "attendance:write"
	PermAssignmentsRead  = "assignments:read"
	PermAssignmentsWrite = "assignments:write"
	PermAssignmentsGrade = "assignments:grade"
	PermPointsRead       = "points:read"
	PermPointsWrite      = "points:write"
	PermReportsRead      = "reports:read"
	PermAdminRead        = "admin:read"
	PermAdminWrite       = "admin:write"
)

// AvailablePermissions lists every permission an API key can carry.
var AvailablePermissions = []string{
	PermStudentsRead,
	PermStudentsWrite,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermAssignmentsRead,
	PermAssignmentsWrite,
	PermAssignmentsGrade,
	PermPointsRead,
	PermPointsWrite,
	PermReportsRead,
	PermAdminRead,
	PermAdminWrite,
}

// IsKnownPermission reports whether perm is in the catalog.
func IsKnownPermission(perm string) bool {
	for _, p := range AvailablePermissions {
		if p == perm {
			return true
		}
	}
	return false
}

// APIKey is a machine credential for external integrations. Only the
// bcrypt hash and an 8-character lookup prefix are stored; the raw key
// is shown once at creation.
type APIKey struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	KeyHash     string     `json:"-"`
	KeyPrefix   string     `json:"keyPrefix"`
	Permissions []string   `json:"permissions"`
	IsActive    bool       `json:"isActive"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt  *time.Time `json:"lastUsedAt,omitempty"`
	UseCount    int64      `json:"useCount"`
	CreatedBy   *int64     `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// HasPermission reports whether the key grants perm.
func (k *APIKey) HasPermission(perm string) bool {
	for _, p := range k.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// IsExpired reports whether the key has passed its expiry.
func (k *APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

// IsUsable reports whether the key may authenticate requests.
func (k *APIKey) IsUsable(now time.Time) bool {
	return k.IsActive && !k.IsExpired(now)
}
