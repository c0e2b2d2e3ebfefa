package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// APIKeyController handles API key administration
type APIKeyController struct {
	apiKeyService APIKeyService
}

// NewAPIKeyController creates a new APIKeyController
func NewAPIKeyController(apiKeyService APIKeyService) *APIKeyController {
	return &APIKeyController{apiKeyService: apiKeyService}
}

// Create mints an API key
// @Summary Create an API key
// @Description Creates a key with the requested permissions. The raw key is returned once and never again.
// @Tags api-keys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAPIKeyRequest true "Key name, permissions and optional expiry"
// @Success 201 {object} dto.APIResponse{data=dto.APIKeyCreatedResponse} "Key created"
// @Failure 400 {object} dto.ErrorResponse "Unknown permission or past expiry"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/api-keys [post]
func (c *APIKeyController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAPIKeyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	created, err := c.apiKeyService.Create(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, created)
}

// GetAll lists keys without secrets
// @Summary List API keys
// @Tags api-keys
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.APIKey} "Keys retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/api-keys [get]
func (c *APIKeyController) GetAll(ctx *gin.Context) {
	keys, err := c.apiKeyService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, keys)
}

// GetByID retrieves one key
// @Summary Get API key by ID
// @Tags api-keys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Key ID"
// @Success 200 {object} dto.APIResponse{data=models.APIKey} "Key retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Key not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/api-keys/{id} [get]
func (c *APIKeyController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	key, err := c.apiKeyService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, key)
}

// Update changes key metadata
// @Summary Update an API key
// @Tags api-keys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Key ID"
// @Param request body dto.UpdateAPIKeyRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=models.APIKey} "Key updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown permission"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Key not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/api-keys/{id} [put]
func (c *APIKeyController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAPIKeyRequest
	if !bindJSON(ctx, &req) {
		return
	}

	key, err := c.apiKeyService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, key)
}

// Regenerate replaces a key's secret
// @Summary Regenerate an API key
// @Description Replaces the key's secret. The old secret stops working immediately and the new one is shown once.
// @Tags api-keys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Key ID"
// @Success 200 {object} dto.APIResponse{data=dto.APIKeyCreatedResponse} "Key regenerated"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Key not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/api-keys/{id}/regenerate [post]
func (c *APIKeyController) Regenerate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	created, err := c.apiKeyService.Regenerate(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, created)
}

// Delete removes a key
// @Summary Delete an API key
// @Tags api-keys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Key ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Key deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Key not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/api-keys/{id} [delete]
func (c *APIKeyController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.apiKeyService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "API key deleted"})
}

// Stats summarizes key usage
// @Summary API key usage stats
// @Tags api-keys
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.APIKeyStats} "Stats retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/api-keys/stats [get]
func (c *APIKeyController) Stats(ctx *gin.Context) {
	stats, err := c.apiKeyService.Stats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, stats)
}

// StatsFor summarizes one key's usage
// @Summary API key usage stats for one key
// @Tags api-keys
// @Produce json
// @Security BearerAuth
// @Param id path int true "Key ID"
// @Success 200 {object} dto.APIResponse{data=dto.APIKeyStats} "Stats retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Key not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/api-keys/{id}/stats [get]
func (c *APIKeyController) StatsFor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	stats, err := c.apiKeyService.StatsFor(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, stats)
}

// Permissions lists the permission catalog
// @Summary List available permissions
// @Tags api-keys
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]string} "Permissions retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/api-keys/permissions [get]
func (c *APIKeyController) Permissions(ctx *gin.Context) {
	respondOK(ctx, c.apiKeyService.AvailablePermissions())
}
