package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/middleware"
	"github.com/ourschool/ourschool/internal/pkg/schoolcal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController handles reports, overviews and exports
type ReportController struct {
	reportService   ReportService
	activityService ActivityService
}

// NewReportController creates a new ReportController
func NewReportController(reportService ReportService, activityService ActivityService) *ReportController {
	return &ReportController{
		reportService:   reportService,
		activityService: activityService,
	}
}

// reportRange reads fromDate/toDate query params, defaulting to the
// current school year.
func reportRange(ctx *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	from := schoolcal.YearStart(now)
	to := now
	if v := queryDate(ctx, "fromDate"); v != nil {
		from = *v
	}
	if v := queryDate(ctx, "toDate"); v != nil {
		to = *v
	}
	return from, to
}

// Attendance builds a student's attendance report
// @Summary Attendance report
// @Description Summarizes a student's attendance against the required days of instruction. Defaults to the current school year.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param fromDate query string false "On or after (YYYY-MM-DD)"
// @Param toDate query string false "On or before (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceReport} "Report retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/attendance/{studentId} [get]
func (c *ReportController) Attendance(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}
	from, to := reportRange(ctx)

	report, err := c.reportService.AttendanceReport(ctx, studentID, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, report)
}

// StudentOverview builds a student's landing report
// @Summary Student overview
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentOverview} "Overview retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/student/{studentId} [get]
func (c *ReportController) StudentOverview(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	overview, err := c.reportService.StudentOverview(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, overview)
}

// AdminOverview builds the whole-school dashboard
// @Summary Admin overview
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminOverview} "Overview retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/admin [get]
func (c *ReportController) AdminOverview(ctx *gin.Context) {
	overview, err := c.reportService.AdminOverview(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, overview)
}

// TermGrades builds a term grade report
// @Summary Term grade report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param termId path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=dto.TermGradeReport} "Report retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/term-grades/{termId} [get]
func (c *ReportController) TermGrades(ctx *gin.Context) {
	termID, ok := parseIDParam(ctx, "termId")
	if !ok {
		return
	}

	report, err := c.reportService.TermGradeReport(ctx, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, report)
}

// Activity builds a student's recent activity feed
// @Summary Recent activity feed
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param limit query int false "Max items (default 20, max 50)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ActivityItem} "Activity retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/activity/{studentId} [get]
func (c *ReportController) Activity(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	items, err := c.activityService.ForStudent(ctx, studentID, queryInt(ctx, "limit", 0))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, items)
}

// ExportTermGrades downloads term grades as a spreadsheet
// @Summary Export term grades to XLSX
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param termId path int true "Term ID"
// @Success 200 {file} binary "Spreadsheet"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/term-grades/{termId}/export [get]
func (c *ReportController) ExportTermGrades(ctx *gin.Context) {
	termID, ok := parseIDParam(ctx, "termId")
	if !ok {
		return
	}

	data, filename, err := c.reportService.ExportTermGradesXLSX(ctx, termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}

// ExportAllAttendance downloads every student's attendance as one workbook
// @Summary Export all attendance to XLSX
// @Description One workbook with a summary sheet and a per-student sheet of daily records.
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param fromDate query string false "On or after (YYYY-MM-DD)"
// @Param toDate query string false "On or before (YYYY-MM-DD)"
// @Success 200 {file} binary "Spreadsheet"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/attendance/export [get]
func (c *ReportController) ExportAllAttendance(ctx *gin.Context) {
	from, to := reportRange(ctx)

	data, filename, err := c.reportService.ExportAllAttendanceXLSX(ctx, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}

// RecentActivity builds the merged recent activity feed
// @Summary Recent activity across students
// @Description Merged feed of recent grades, submissions, attendance and journal entries. Admins see every student; students see their own.
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 10, max 50)"
// @Param days query int false "Days back (default 7, max 30)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ActivityItem} "Activity retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /activity/recent [get]
func (c *ReportController) RecentActivity(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var studentID *int64
	if !isAdmin(ctx) {
		studentID = &userID
	}

	items, err := c.activityService.Recent(ctx, studentID,
		queryInt(ctx, "limit", 0), queryInt(ctx, "days", 0))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, items)
}

// ExportAttendance downloads an attendance report as a spreadsheet
// @Summary Export attendance to XLSX
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param fromDate query string false "On or after (YYYY-MM-DD)"
// @Param toDate query string false "On or before (YYYY-MM-DD)"
// @Success 200 {file} binary "Spreadsheet"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/attendance/{studentId}/export [get]
func (c *ReportController) ExportAttendance(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}
	from, to := reportRange(ctx)

	data, filename, err := c.reportService.ExportAttendanceXLSX(ctx, studentID, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}
