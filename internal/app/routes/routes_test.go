package routes

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ourschool/ourschool/internal/app/controllers"
	"github.com/ourschool/ourschool/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func registeredRoutes(t *testing.T) map[string]bool {
	t.Helper()

	router := gin.New()
	c := &Controllers{
		Auth:       controllers.NewAuthController(nil, nil),
		User:       controllers.NewUserController(nil),
		Student:    controllers.NewStudentController(nil),
		Subject:    controllers.NewSubjectController(nil),
		Template:   controllers.NewTemplateController(nil),
		Assignment: controllers.NewAssignmentController(nil),
		Term:       controllers.NewTermController(nil),
		Attendance: controllers.NewAttendanceController(nil, nil),
		Journal:    controllers.NewJournalController(nil, nil),
		Points:     controllers.NewPointsController(nil),
		Settings:   controllers.NewSettingsController(nil),
		APIKey:     controllers.NewAPIKeyController(nil),
		Report:     controllers.NewReportController(nil, nil),
		Backup:     controllers.NewBackupController(nil),
	}
	SetupRouter(router, c, middleware.NewAuthMiddleware(nil, nil))

	routes := make(map[string]bool)
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	return routes
}

func TestRouteSurface(t *testing.T) {
	routes := registeredRoutes(t)

	expected := []string{
		"POST /api/auth/login",
		"GET /api/auth/setup-status",
		"POST /api/auth/extend-session",
		"POST /api/users",
		"GET /api/users/me",
		"POST /api/users/change-password",
		"GET /api/health",
		"POST /api/assignments/assign",
		"GET /api/assignments/dashboard",
		"GET /api/assignments/templates",
		"POST /api/assignments/templates/:id/archive",
		"GET /api/assignments/student-assignments",
		"POST /api/assignments/student-assignments/:id/grade",
		"GET /api/attendance/students",
		"POST /api/attendance/bulk",
		"GET /api/journal/students",
		"POST /api/journal/entries",
		"GET /api/journal/entries/student/:studentId",
		"GET /api/activity/recent",
		"GET /api/settings/attendance/required-days",
		"PUT /api/settings/attendance/required-days",
		"GET /api/reports/academic-years",
		"GET /api/reports/attendance/export",
		"GET /api/reports/attendance/:studentId",
		"GET /api/admin/api-keys/:id/stats",
		"POST /api/admin/backup/import",
	}
	for _, route := range expected {
		assert.True(t, routes[route], "missing route %s", route)
	}
}

func TestRetiredRoutesAreGone(t *testing.T) {
	routes := registeredRoutes(t)

	retired := []string{
		"POST /api/auth/register",
		"GET /api/auth/profile",
		"POST /api/auth/extend",
		"GET /api/assignment-templates",
		"POST /api/journal",
		"GET /api/settings/school-days",
		"GET /api/terms/academic-years",
	}
	for _, route := range retired {
		assert.False(t, routes[route], "retired route %s still mounted", route)
	}
}
