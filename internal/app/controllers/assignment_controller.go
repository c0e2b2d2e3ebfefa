package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// AssignmentController handles student assignments and grading
type AssignmentController struct {
	assignmentService AssignmentService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: assignmentService}
}

// Assign gives a template to one or more students
// @Summary Assign a template to students
// @Description Creates one assignment per student. Students who already have the template are skipped and reported.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignRequest true "Template and students"
// @Success 201 {object} dto.APIResponse{data=dto.AssignResult} "Assignments created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Template or student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/assign [post]
func (c *AssignmentController) Assign(ctx *gin.Context) {
	var req dto.AssignRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.assignmentService.Assign(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, result)
}

// GetAll lists assignments
// @Summary List student assignments
// @Description Lists assignments with effective status. Students see only their own work.
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param subjectId query int false "Filter by subject"
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by assignment type"
// @Param fromDate query string false "Due on or after (YYYY-MM-DD)"
// @Param toDate query string false "Due on or before (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.StudentAssignment} "Assignments retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/student-assignments [get]
func (c *AssignmentController) GetAll(ctx *gin.Context) {
	filter := dto.AssignmentFilter{
		StudentID: queryInt64(ctx, "studentId"),
		SubjectID: queryInt64(ctx, "subjectId"),
		Status:    queryString(ctx, "status"),
		Type:      queryString(ctx, "type"),
		FromDate:  queryDate(ctx, "fromDate"),
		ToDate:    queryDate(ctx, "toDate"),
	}

	// Students only ever see their own assignments.
	if !isAdmin(ctx) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		filter.StudentID = &userID
	}

	assignments, err := c.assignmentService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignments)
}

// GetByID retrieves one assignment
// @Summary Get assignment by ID
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentAssignment} "Assignment retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/student-assignments/{id} [get]
func (c *AssignmentController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assignment, err := c.assignmentService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if !isAdmin(ctx) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		if assignment.StudentID != userID {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			ctx.JSON(403, dto.NewErrorResponse(errorDetail))
			return
		}
	}
	respondOK(ctx, assignment)
}

// Update modifies an assignment
// @Summary Update an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body dto.UpdateStudentAssignmentRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=models.StudentAssignment} "Assignment updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/student-assignments/{id} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentAssignmentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	assignment, err := c.assignmentService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignment)
}

// Start marks the caller's assignment as in progress
// @Summary Start an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentAssignment} "Assignment started"
// @Failure 400 {object} dto.ErrorResponse "Assignment already graded"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not your assignment"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/student-assignments/{id}/start [post]
func (c *AssignmentController) Start(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	assignment, err := c.assignmentService.Start(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignment)
}

// Submit marks the caller's assignment as submitted
// @Summary Submit an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentAssignment} "Assignment submitted"
// @Failure 400 {object} dto.ErrorResponse "Assignment already graded"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not your assignment"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/student-assignments/{id}/submit [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	assignment, err := c.assignmentService.Submit(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignment)
}

// Grade records points and feedback for an assignment
// @Summary Grade an assignment
// @Description Records points earned, computes the percentage and letter grade, awards points once, and refreshes the linked term grade.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body dto.GradeRequest true "Grade"
// @Success 200 {object} dto.APIResponse{data=models.StudentAssignment} "Assignment graded"
// @Failure 400 {object} dto.ErrorResponse "Points exceed maximum"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/student-assignments/{id}/grade [post]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.GradeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	assignment, err := c.assignmentService.Grade(ctx, id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignment)
}

// Delete removes an assignment
// @Summary Delete an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Assignment deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/student-assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.assignmentService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Assignment deleted"})
}

// Dashboard summarizes assignment workload per student
// @Summary Assignment dashboard
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardOverview} "Dashboard retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/dashboard [get]
func (c *AssignmentController) Dashboard(ctx *gin.Context) {
	overview, err := c.assignmentService.Dashboard(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, overview)
}

// ByTemplate lists assignments created from one template
// @Summary List assignments for a template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} dto.APIResponse{data=[]models.StudentAssignment} "Assignments retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/templates/{id}/assignments [get]
func (c *AssignmentController) ByTemplate(ctx *gin.Context) {
	templateID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assignments, err := c.assignmentService.GetAll(ctx, dto.AssignmentFilter{TemplateID: &templateID})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignments)
}
