package dto

import (
	"time"

	"github.com/ourschool/ourschool/internal/app/models"
)

// UserSummary is the public shape of an account.
type UserSummary struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Role       string     `json:"role" enums:"admin,student"`
	ParentID   *int64     `json:"parentId,omitempty"`
	GradeLevel *string    `json:"gradeLevel,omitempty"`
	IsActive   bool       `json:"isActive"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// FromUser converts a models.User to its public shape.
func FromUser(u *models.User) UserSummary {
	return UserSummary{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       string(u.Role),
		ParentID:   u.ParentID,
		GradeLevel: u.GradeLevel,
		IsActive:   u.IsActive,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}

// CreateUserRequest creates an account. The first account ever created
// becomes an admin without authentication; afterwards admin-only.
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required" validate:"min=3,max=100"`
	Email     string `json:"email" binding:"required" validate:"email"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Password  string `json:"password" binding:"required" validate:"min=6"`
	Role      string `json:"role" validate:"omitempty,oneof=admin student"`
}

// UpdateUserRequest partially updates an account.
type UpdateUserRequest struct {
	Email      *string `json:"email" validate:"omitempty,email"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	GradeLevel *string `json:"gradeLevel"`
	IsActive   *bool   `json:"isActive"`
}

// ChangePasswordRequest rotates the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required" validate:"min=6"`
}

// ResetPasswordResponse returns an admin-generated temporary password.
type ResetPasswordResponse struct {
	TemporaryPassword string `json:"temporaryPassword"`
	Message           string `json:"message"`
}
