package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// AuthController handles authentication operations
type AuthController struct {
	authService AuthService
	userService UserService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, userService UserService) *AuthController {
	return &AuthController{
		authService: authService,
		userService: userService,
	}
}

// Login authenticates a user
// @Summary Log in
// @Description Authenticates a user with username and password and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	token, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, token)
}

// Extend issues a fresh token for the current session
// @Summary Extend session
// @Description Issues a new JWT for the authenticated user, resetting the expiry window
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Session extended"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/extend-session [post]
func (c *AuthController) Extend(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	token, err := c.authService.ExtendSession(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, token)
}

// Profile returns the authenticated user
// @Summary Get current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserSummary} "Profile retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	profile, err := c.authService.GetProfile(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, profile)
}

// ChangePassword updates the caller's own password
// @Summary Change own password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password changed"
// @Failure 400 {object} dto.ErrorResponse "Password requirements not met"
// @Failure 401 {object} dto.ErrorResponse "Current password incorrect"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/change-password [post]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.userService.ChangePassword(ctx, userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Password changed"})
}

// SetupStatus reports whether initial setup is pending
// @Summary Check setup status
// @Description Reports whether any user account exists. When false, the first registration becomes the admin.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse "Setup status"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/setup-status [get]
func (c *AuthController) SetupStatus(ctx *gin.Context) {
	hasUsers, err := c.userService.HasAnyUser(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, gin.H{"setupComplete": hasUsers})
}
