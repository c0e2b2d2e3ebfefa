package dto

import (
	"time"

	"github.com/ourschool/ourschool/internal/app/models"
)

// CreateAPIKeyRequest mints a machine credential.
type CreateAPIKeyRequest struct {
	Name        string     `json:"name" binding:"required" validate:"max=100"`
	Permissions []string   `json:"permissions" binding:"required"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// UpdateAPIKeyRequest updates key metadata; the secret is untouched.
type UpdateAPIKeyRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=100"`
	Permissions *[]string  `json:"permissions"`
	IsActive    *bool      `json:"isActive"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// APIKeyCreatedResponse is the only place a raw key ever appears.
type APIKeyCreatedResponse struct {
	Key    models.APIKey `json:"key"`
	RawKey string        `json:"rawKey"`
}

// APIKeyStats summarizes usage of one key.
type APIKeyStats struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	UseCount   int64      `json:"useCount"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	AgeDays    int        `json:"ageDays"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	IsActive   bool       `json:"isActive"`
}
