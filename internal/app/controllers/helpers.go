package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
	"github.com/ourschool/ourschool/internal/pkg/validation"
)

// bodyValidator enforces the `validate` tag set on bound request
// bodies. Gin's binding engine only runs `binding` tags, so the
// domain rules (status enums, date formats, academic years, hex
// colors) are checked here after binding.
var bodyValidator = newBodyValidator()

func newBodyValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("validate")
	if err := validation.RegisterCustomValidators(v); err != nil {
		panic(err)
	}
	return v
}

// parseIDParam reads a positive int64 path parameter or writes a 400.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// currentUserID returns the authenticated user's ID from the context.
// API key requests act as the admin who created the key.
func currentUserID(ctx *gin.Context) (int64, bool) {
	value, exists := ctx.Get(middleware.ContextUserID)
	if !exists {
		if raw, keyed := ctx.Get(middleware.ContextAPIKey); keyed {
			if key, ok := raw.(*models.APIKey); ok && key.CreatedBy != nil {
				return *key.CreatedBy, true
			}
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	id, ok := value.(int64)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// currentRole returns the authenticated user's role from the context.
func currentRole(ctx *gin.Context) models.UserRole {
	if value, exists := ctx.Get(middleware.ContextRole); exists {
		if role, ok := value.(string); ok {
			return models.UserRole(role)
		}
	}
	return ""
}

// isAdmin reports whether the request carries an admin identity. API
// key requests count as admin for read scoping purposes.
func isAdmin(ctx *gin.Context) bool {
	if _, exists := ctx.Get(middleware.ContextAPIKey); exists {
		return true
	}
	return currentRole(ctx) == models.RoleAdmin
}

// queryInt64 parses an optional int64 query parameter.
func queryInt64(ctx *gin.Context, name string) *int64 {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}

// queryInt parses an optional int query parameter with a default.
func queryInt(ctx *gin.Context, name string, def int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

// queryString returns an optional string query parameter.
func queryString(ctx *gin.Context, name string) *string {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(ctx *gin.Context, name string) *time.Time {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &value
}

// respondOK writes the standard success envelope.
func respondOK(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	})
}

// respondCreated writes the standard creation envelope.
func respondCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	})
}

// bindJSON binds the request body and runs the domain validation
// rules, or writes a 400.
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	if err := bodyValidator.Struct(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
