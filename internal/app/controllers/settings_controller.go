package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// SettingsController handles system settings
type SettingsController struct {
	settingsService SettingsService
}

// NewSettingsController creates a new SettingsController
func NewSettingsController(settingsService SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

// GetAll lists every setting
// @Summary List settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SystemSetting} "Settings retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /settings [get]
func (c *SettingsController) GetAll(ctx *gin.Context) {
	settings, err := c.settingsService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, settings)
}

// Get retrieves one setting
// @Summary Get setting by key
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Success 200 {object} dto.APIResponse{data=models.SystemSetting} "Setting retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Setting not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /settings/{key} [get]
func (c *SettingsController) Get(ctx *gin.Context) {
	setting, err := c.settingsService.Get(ctx, ctx.Param("key"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, setting)
}

// Update writes one setting
// @Summary Update a setting
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param request body dto.UpdateSettingRequest true "New value"
// @Success 200 {object} dto.APIResponse{data=models.SystemSetting} "Setting updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid value"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /settings/{key} [put]
func (c *SettingsController) Update(ctx *gin.Context) {
	var req dto.UpdateSettingRequest
	if !bindJSON(ctx, &req) {
		return
	}

	setting, err := c.settingsService.Update(ctx, ctx.Param("key"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, setting)
}

// GetRequiredDays reads the required days of instruction
// @Summary Get required school days
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RequiredDaysResponse} "Required days retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /settings/attendance/required-days [get]
func (c *SettingsController) GetRequiredDays(ctx *gin.Context) {
	days, err := c.settingsService.GetRequiredDays(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.RequiredDaysResponse{RequiredDays: days})
}

// SetRequiredDays writes the required days of instruction
// @Summary Set required school days
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RequiredDaysRequest true "Required days"
// @Success 200 {object} dto.APIResponse{data=dto.RequiredDaysResponse} "Required days updated"
// @Failure 400 {object} dto.ErrorResponse "Value out of range"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /settings/attendance/required-days [put]
func (c *SettingsController) SetRequiredDays(ctx *gin.Context) {
	var req dto.RequiredDaysRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.settingsService.SetRequiredDays(ctx, req.RequiredDays); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.RequiredDaysResponse{RequiredDays: req.RequiredDays})
}
