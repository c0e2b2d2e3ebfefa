package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// TermController handles academic terms and term grades
type TermController struct {
	termService TermService
}

// NewTermController creates a new TermController
func NewTermController(termService TermService) *TermController {
	return &TermController{termService: termService}
}

// Create adds a term
// @Summary Create a term
// @Tags terms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTermRequest true "Term information"
// @Success 201 {object} dto.APIResponse{data=models.Term} "Term created"
// @Failure 400 {object} dto.ErrorResponse "End date not after start date"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Term already exists for academic year and order"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms [post]
func (c *TermController) Create(ctx *gin.Context) {
	var req dto.CreateTermRequest
	if !bindJSON(ctx, &req) {
		return
	}

	term, err := c.termService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, term)
}

// GetAll lists terms
// @Summary List terms
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Term} "Terms retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms [get]
func (c *TermController) GetAll(ctx *gin.Context) {
	terms, err := c.termService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, terms)
}

// GetActive retrieves the active term
// @Summary Get the active term
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Term} "Active term retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "No active term"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/active [get]
func (c *TermController) GetActive(ctx *gin.Context) {
	term, err := c.termService.GetActive(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, term)
}

// GetByID retrieves one term
// @Summary Get term by ID
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=models.Term} "Term retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id} [get]
func (c *TermController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	term, err := c.termService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, term)
}

// Update modifies a term
// @Summary Update a term
// @Tags terms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Param request body dto.UpdateTermRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=models.Term} "Term updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 409 {object} dto.ErrorResponse "Term already exists for academic year and order"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id} [put]
func (c *TermController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTermRequest
	if !bindJSON(ctx, &req) {
		return
	}

	term, err := c.termService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, term)
}

// Delete removes a term
// @Summary Delete a term
// @Description Deletes a term with no linked assignments or grades
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Term deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 409 {object} dto.ErrorResponse "Term has linked data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id} [delete]
func (c *TermController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.termService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Term deleted"})
}

// Activate makes a term the single active term
// @Summary Activate a term
// @Description Deactivates every other term, activates this one, and links term-less assignments falling in its date range.
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=models.Term} "Term activated"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id}/activate [post]
func (c *TermController) Activate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	term, err := c.termService.Activate(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, term)
}

// AddSubject links a subject to a term
// @Summary Add a subject to a term
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Subject linked"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term or subject not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id}/subjects/{subjectId} [post]
func (c *TermController) AddSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	if err := c.termService.AddSubject(ctx, id, subjectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Subject linked to term"})
}

// RemoveSubject unlinks a subject from a term
// @Summary Remove a subject from a term
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Subject unlinked"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Link not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id}/subjects/{subjectId} [delete]
func (c *TermController) RemoveSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(ctx, "subjectId")
	if !ok {
		return
	}

	if err := c.termService.RemoveSubject(ctx, id, subjectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Subject unlinked from term"})
}

// GetSubjects lists subjects linked to a term
// @Summary List term subjects
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=[]models.TermSubject} "Subjects retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id}/subjects [get]
func (c *TermController) GetSubjects(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	subjects, err := c.termService.GetSubjects(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, subjects)
}

// AutoLinkSubjects links every subject with graded work in the term
// @Summary Auto-link term subjects
// @Description Links all subjects that have graded assignments within the term, skipping ones already linked.
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=dto.AutoLinkResult} "Link summary"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id}/auto-link-subjects [post]
func (c *TermController) AutoLinkSubjects(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.termService.AutoLinkSubjects(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, result)
}

// CalculateGrades recomputes every term grade from graded assignments
// @Summary Calculate term grades
// @Description Recomputes per-student per-subject term grades from graded assignments, recording changes in grade history.
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=dto.CalculateGradesResult} "Calculation summary"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id}/calculate-grades [post]
func (c *TermController) CalculateGrades(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.termService.CalculateGrades(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, result)
}

// GetGrades lists term grades
// @Summary List term grades
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=[]models.StudentTermGrade} "Grades retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id}/grades [get]
func (c *TermController) GetGrades(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	grades, err := c.termService.GetGrades(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, grades)
}

// AcademicYears lists the years covered by terms
// @Summary List academic years
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]string} "Academic years retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/academic-years [get]
func (c *TermController) AcademicYears(ctx *gin.Context) {
	years, err := c.termService.AcademicYears(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, years)
}
