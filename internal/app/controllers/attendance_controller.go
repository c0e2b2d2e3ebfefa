package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// AttendanceController handles daily attendance records
type AttendanceController struct {
	attendanceService AttendanceService
	studentService    StudentDirectory
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService AttendanceService, studentService StudentDirectory) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		studentService:    studentService,
	}
}

// Students lists the students selectable for attendance entry
// @Summary List students for attendance entry
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserSummary} "Students retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/students [get]
func (c *AttendanceController) Students(ctx *gin.Context) {
	students, err := c.studentService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, students)
}

// Create records attendance for one student and date
// @Summary Record attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAttendanceRequest true "Attendance record"
// @Success 201 {object} dto.APIResponse{data=models.AttendanceRecord} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Attendance already recorded for this date"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance [post]
func (c *AttendanceController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateAttendanceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	record, err := c.attendanceService.Create(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, record)
}

// BulkRecord records attendance for many students on one date
// @Summary Record bulk attendance
// @Description Upserts attendance for a list of students on one date. If any student is unknown the whole request fails before any write.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkAttendanceRequest true "Date and per-student records"
// @Success 200 {object} dto.APIResponse{data=dto.BulkAttendanceResult} "Bulk attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/bulk [post]
func (c *AttendanceController) BulkRecord(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.BulkAttendanceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.attendanceService.BulkRecord(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, result)
}

// GetAll lists attendance records
// @Summary List attendance
// @Description Lists attendance records. Students see only their own records.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param status query string false "Filter by status"
// @Param fromDate query string false "On or after (YYYY-MM-DD)"
// @Param toDate query string false "On or before (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceRecord} "Attendance retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance [get]
func (c *AttendanceController) GetAll(ctx *gin.Context) {
	filter := dto.AttendanceFilter{
		StudentID: queryInt64(ctx, "studentId"),
		Status:    queryString(ctx, "status"),
		FromDate:  queryDate(ctx, "fromDate"),
		ToDate:    queryDate(ctx, "toDate"),
	}

	if !isAdmin(ctx) {
		userID, ok := currentUserID(ctx)
		if !ok {
			return
		}
		filter.StudentID = &userID
	}

	records, err := c.attendanceService.GetAll(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, records)
}

// GetByID retrieves one attendance record
// @Summary Get attendance record by ID
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} dto.APIResponse{data=models.AttendanceRecord} "Record retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/{id} [get]
func (c *AttendanceController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	record, err := c.attendanceService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, record)
}

// Update modifies an attendance record
// @Summary Update attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param request body dto.UpdateAttendanceRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=models.AttendanceRecord} "Record updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/{id} [put]
func (c *AttendanceController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAttendanceRequest
	if !bindJSON(ctx, &req) {
		return
	}

	record, err := c.attendanceService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, record)
}

// Delete removes an attendance record
// @Summary Delete attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Record deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/{id} [delete]
func (c *AttendanceController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.attendanceService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.SuccessResponse{Message: "Attendance record deleted"})
}
