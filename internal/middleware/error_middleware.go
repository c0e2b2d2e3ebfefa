package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rollbar/rollbar-go"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. Controllers
// call this for any error bubbling up from the service layer.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// 404
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrStudentNotFound,
		apperrors.ErrTermNotFound,
		apperrors.ErrTemplateNotFound,
		apperrors.ErrAssignmentNotFound,
		apperrors.ErrAttendanceNotFound,
		apperrors.ErrJournalNotFound,
		apperrors.ErrSubjectNotFound,
		apperrors.ErrLessonNotFound,
		apperrors.ErrSettingNotFound,
		apperrors.ErrAPIKeyNotFound,
		apperrors.ErrNoActiveTerm):
		c.JSON(http.StatusNotFound, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})

	// 409
	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrResourceAlreadyExists,
		apperrors.ErrUsernameExists,
		apperrors.ErrEmailAlreadyExists,
		apperrors.ErrSubjectAlreadyExists,
		apperrors.ErrTermOverlap,
		apperrors.ErrTermHasRelations,
		apperrors.ErrAlreadyAssigned,
		apperrors.ErrDuplicateAttendance):
		c.JSON(http.StatusConflict, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()),
		})

	// 401
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case apperrors.Is(err, apperrors.ErrInvalidAPIKey, apperrors.ErrAPIKeyExpired):
		c.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidAPIKey, err.Error()),
		})

	// 403
	case apperrors.Is(err, apperrors.ErrPermissionDenied,
		apperrors.ErrAccountDisabled,
		apperrors.ErrCannotModifyAdmin,
		apperrors.ErrNotEntryAuthor):
		c.JSON(http.StatusForbidden, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error()),
		})

	// 400
	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest,
		apperrors.ErrPasswordRequirement,
		apperrors.ErrCannotDeleteSelf,
		apperrors.ErrInvalidGrade,
		apperrors.ErrPointsDisabled,
		apperrors.ErrInsufficientPoints,
		apperrors.ErrInvalidSettingValue,
		apperrors.ErrInvalidPermission):
		c.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})

	default:
		rollbar.Error(err, map[string]interface{}{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
		c.JSON(http.StatusInternalServerError, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
