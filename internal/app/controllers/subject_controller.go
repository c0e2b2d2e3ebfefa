package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// SubjectController handles subjects and their lessons
type SubjectController struct {
	subjectService SubjectService
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService SubjectService) *SubjectController {
	return &SubjectController{subjectService: subjectService}
}

// Create adds a subject
// @Summary Create a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Subject already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if !bindJSON(ctx, &req) {
		return
	}

	subject, err := c.subjectService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, subject)
}

// GetAll lists subjects
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param includeInactive query bool false "Include inactive subjects"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject} "Subjects retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [get]
func (c *SubjectController) GetAll(ctx *gin.Context) {
	subjects, err := c.subjectService.GetAll(ctx, ctx.Query("includeInactive") == "true")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, subjects)
}

// GetByID retrieves one subject
// @Summary Get subject by ID
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id} [get]
func (c *SubjectController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	subject, err := c.subjectService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, subject)
}

// Update modifies a subject
// @Summary Update a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param request body dto.UpdateSubjectRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 409 {object} dto.ErrorResponse "Subject name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if !bindJSON(ctx, &req) {
		return
	}

	subject, err := c.subjectService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, subject)
}

// Delete removes a subject
// @Summary Delete a subject
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Subject deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.subjectService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Subject deleted"})
}

// CreateLesson adds a lesson
// @Summary Create a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLessonRequest true "Lesson information"
// @Success 201 {object} dto.APIResponse{data=models.Lesson} "Lesson created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons [post]
func (c *SubjectController) CreateLesson(ctx *gin.Context) {
	var req dto.CreateLessonRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lesson, err := c.subjectService.CreateLesson(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, lesson)
}

// GetLessons lists lessons
// @Summary List lessons
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param subjectId query int false "Filter by subject"
// @Success 200 {object} dto.APIResponse{data=[]models.Lesson} "Lessons retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons [get]
func (c *SubjectController) GetLessons(ctx *gin.Context) {
	lessons, err := c.subjectService.GetLessons(ctx, queryInt64(ctx, "subjectId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, lessons)
}

// GetLessonByID retrieves one lesson
// @Summary Get lesson by ID
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=models.Lesson} "Lesson retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id} [get]
func (c *SubjectController) GetLessonByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	lesson, err := c.subjectService.GetLessonByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, lesson)
}

// UpdateLesson modifies a lesson
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.UpdateLessonRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=models.Lesson} "Lesson updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id} [put]
func (c *SubjectController) UpdateLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lesson, err := c.subjectService.UpdateLesson(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, lesson)
}

// DeleteLesson removes a lesson
// @Summary Delete a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Lesson deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id} [delete]
func (c *SubjectController) DeleteLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.subjectService.DeleteLesson(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Lesson deleted"})
}

// LinkTemplate attaches an assignment template to a lesson
// @Summary Link a template to a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.LinkLessonAssignmentRequest true "Template link"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Template linked"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Lesson or template not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id}/assignments [post]
func (c *SubjectController) LinkTemplate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.LinkLessonAssignmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.subjectService.LinkTemplate(ctx, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Template linked"})
}

// UnlinkTemplate detaches an assignment template from a lesson
// @Summary Unlink a template from a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param templateId path int true "Template ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Template unlinked"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Link not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id}/assignments/{templateId} [delete]
func (c *SubjectController) UnlinkTemplate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	templateID, ok := parseIDParam(ctx, "templateId")
	if !ok {
		return
	}

	if err := c.subjectService.UnlinkTemplate(ctx, id, templateID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Template unlinked"})
}

// GetLessonTemplates lists templates attached to a lesson
// @Summary List lesson templates
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AssignmentTemplate} "Templates retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{id}/assignments [get]
func (c *SubjectController) GetLessonTemplates(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	templates, err := c.subjectService.GetLessonTemplates(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, templates)
}
