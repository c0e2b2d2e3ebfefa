package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// TemplateController handles reusable assignment templates
type TemplateController struct {
	templateService TemplateService
}

// NewTemplateController creates a new TemplateController
func NewTemplateController(templateService TemplateService) *TemplateController {
	return &TemplateController{templateService: templateService}
}

func templateFilterFromQuery(ctx *gin.Context) dto.TemplateFilter {
	filter := dto.TemplateFilter{
		SubjectID: queryInt64(ctx, "subjectId"),
		Type:      queryString(ctx, "type"),
		Search:    ctx.Query("search"),
	}
	if raw := ctx.Query("archived"); raw != "" {
		archived := raw == "true"
		filter.Archived = &archived
	}
	return filter
}

// Create adds a template
// @Summary Create an assignment template
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTemplateRequest true "Template information"
// @Success 201 {object} dto.APIResponse{data=models.AssignmentTemplate} "Template created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates [post]
func (c *TemplateController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateTemplateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	template, err := c.templateService.Create(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, template)
}

// GetAll lists templates
// @Summary List assignment templates
// @Description Lists templates, excluding archived ones unless archived=true
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param subjectId query int false "Filter by subject"
// @Param type query string false "Filter by assignment type"
// @Param archived query bool false "Show archived templates"
// @Param search query string false "Search in title and description"
// @Success 200 {object} dto.APIResponse{data=[]models.AssignmentTemplate} "Templates retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates [get]
func (c *TemplateController) GetAll(ctx *gin.Context) {
	templates, err := c.templateService.GetAll(ctx, templateFilterFromQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, templates)
}

// GetByID retrieves one template
// @Summary Get template by ID
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} dto.APIResponse{data=models.AssignmentTemplate} "Template retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates/{id} [get]
func (c *TemplateController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	template, err := c.templateService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, template)
}

// Update modifies a template
// @Summary Update a template
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Param request body dto.UpdateTemplateRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=models.AssignmentTemplate} "Template updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates/{id} [put]
func (c *TemplateController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTemplateRequest
	if !bindJSON(ctx, &req) {
		return
	}

	template, err := c.templateService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, template)
}

// Archive hides a template from active listings
// @Summary Archive a template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Template archived"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates/{id}/archive [post]
func (c *TemplateController) Archive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.templateService.Archive(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Template archived"})
}

// Restore brings an archived template back
// @Summary Restore a template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Template restored"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates/{id}/restore [post]
func (c *TemplateController) Restore(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.templateService.Restore(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Template restored"})
}

// Delete removes a template
// @Summary Delete a template
// @Description Deletes a template that has no assignments. Templates already assigned can only be archived.
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Template deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Failure 409 {object} dto.ErrorResponse "Template has assignments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates/{id} [delete]
func (c *TemplateController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.templateService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Template deleted"})
}

// Export downloads templates as a portable document
// @Summary Export templates
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param subjectId query int false "Filter by subject"
// @Param type query string false "Filter by assignment type"
// @Success 200 {object} dto.TemplateExportDocument "Export document"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates/export [get]
func (c *TemplateController) Export(ctx *gin.Context) {
	doc, err := c.templateService.Export(ctx, templateFilterFromQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=assignment-templates.json")
	ctx.JSON(200, doc)
}

// Import loads templates from an export document
// @Summary Import templates
// @Description Imports templates from an export document. Templates whose title already exists under the same subject are skipped; missing subjects are created.
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TemplateExportDocument true "Export document"
// @Success 200 {object} dto.APIResponse{data=dto.TemplateImportResult} "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Unsupported format version"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates/import [post]
func (c *TemplateController) Import(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var doc dto.TemplateExportDocument
	if !bindJSON(ctx, &doc) {
		return
	}

	result, err := c.templateService.Import(ctx, userID, &doc)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, result)
}
