package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginPayload struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=8"`
	Email    string `validate:"omitempty,email"`
}

func TestHandleValidationErrorFieldErrors(t *testing.T) {
	v := validator.New()

	err := v.Struct(loginPayload{Password: "short", Email: "not-an-email"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "Username", detail.Field)
	assert.Equal(t, "Username is required", detail.Message)

	messages, ok := detail.Details.([]string)
	require.True(t, ok)
	assert.Contains(t, messages, "Password must be at least 8")
	assert.Contains(t, messages, "Email must be a valid email address")
}

func TestHandleValidationErrorGenericError(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "Invalid request format", detail.Message)
	assert.Equal(t, "unexpected EOF", detail.Details)
}
