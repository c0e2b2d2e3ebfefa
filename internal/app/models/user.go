package models

import "time"

// User represents an account: an admin (parent/teacher) or a student.
// Students carry a parent_id pointing at the admin who manages them.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	ParentID     *int64     `json:"parentId,omitempty"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	GradeLevel   *string    `json:"gradeLevel,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// FullName returns the display name used across reports and feeds.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
