package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// JournalController handles journal entries
type JournalController struct {
	journalService JournalService
	studentService StudentDirectory
}

// NewJournalController creates a new JournalController
func NewJournalController(journalService JournalService, studentService StudentDirectory) *JournalController {
	return &JournalController{
		journalService: journalService,
		studentService: studentService,
	}
}

// Students lists the students a journal entry can be written about
// @Summary List students for journal entry
// @Tags journal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserSummary} "Students retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journal/students [get]
func (c *JournalController) Students(ctx *gin.Context) {
	students, err := c.studentService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students)
}

// Create adds a journal entry
// @Summary Create a journal entry
// @Description Creates an entry about a student. Students may only write about themselves.
// @Tags journal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJournalEntryRequest true "Entry"
// @Success 201 {object} dto.APIResponse{data=models.JournalEntry} "Entry created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students may only write about themselves"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journal/entries [post]
func (c *JournalController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateJournalEntryRequest
	if !bindJSON(ctx, &req) {
		return
	}

	entry, err := c.journalService.Create(ctx, userID, currentRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, entry)
}

// GetByStudent lists entries for a student
// @Summary List a student's journal
// @Description Lists journal entries for a student, newest first. Students may only read their own journal.
// @Tags journal
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param fromDate query string false "On or after (YYYY-MM-DD)"
// @Param toDate query string false "On or before (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.JournalEntry} "Entries retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students may only read their own journal"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journal/entries/student/{studentId} [get]
func (c *JournalController) GetByStudent(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	entries, err := c.journalService.GetByStudent(ctx, userID, currentRole(ctx), studentID,
		queryDate(ctx, "fromDate"), queryDate(ctx, "toDate"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, entries)
}

// GetByID retrieves one entry
// @Summary Get journal entry by ID
// @Tags journal
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} dto.APIResponse{data=models.JournalEntry} "Entry retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journal/entries/{id} [get]
func (c *JournalController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	entry, err := c.journalService.GetByID(ctx, userID, currentRole(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, entry)
}

// Update modifies an entry the caller wrote
// @Summary Update a journal entry
// @Description Updates an entry. Only the author may modify it.
// @Tags journal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param request body dto.UpdateJournalEntryRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=models.JournalEntry} "Entry updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Only the author may modify the entry"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journal/entries/{id} [put]
func (c *JournalController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateJournalEntryRequest
	if !bindJSON(ctx, &req) {
		return
	}

	entry, err := c.journalService.Update(ctx, userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, entry)
}

// Delete removes an entry the caller wrote
// @Summary Delete a journal entry
// @Tags journal
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Entry deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Only the author may delete the entry"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journal/entries/{id} [delete]
func (c *JournalController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if err := c.journalService.Delete(ctx, userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Journal entry deleted"})
}
