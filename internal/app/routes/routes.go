package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/controllers"
	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// Controllers bundles every controller for route registration.
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Student    *controllers.StudentController
	Subject    *controllers.SubjectController
	Template   *controllers.TemplateController
	Assignment *controllers.AssignmentController
	Term       *controllers.TermController
	Attendance *controllers.AttendanceController
	Journal    *controllers.JournalController
	Points     *controllers.PointsController
	Settings   *controllers.SettingsController
	APIKey     *controllers.APIKeyController
	Report     *controllers.ReportController
	Backup     *controllers.BackupController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Public routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.GET("/setup-status", c.Auth.SetupStatus)
	}

	// Registration carries optional credentials: the first account is
	// created anonymously, every later one by an admin.
	api.POST("/users", authMiddleware.OptionalJWT(), c.User.Register)

	// Health check endpoint (public)
	api.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/extend-session", c.Auth.Extend)
		authenticated.GET("/users/me", c.Auth.Profile)
		authenticated.POST("/users/change-password", c.Auth.ChangePassword)

		// Admin-only account management
		users := authenticated.Group("/users")
		users.Use(authMiddleware.AdminRequired())
		{
			users.GET("", c.User.GetAll)
			users.GET("/:id", c.User.GetByID)
			users.PUT("/:id", c.User.Update)
			users.DELETE("/:id", c.User.Delete)
			users.POST("/:id/reset-password", c.User.ResetPassword)
		}

		students := authenticated.Group("/students")
		students.Use(authMiddleware.AdminRequired())
		{
			students.POST("", c.Student.Create)
			students.GET("", c.Student.GetAll)
			students.GET("/:id", c.Student.GetByID)
			students.PUT("/:id", c.Student.Update)
			students.DELETE("/:id", c.Student.Delete)
		}

		subjects := authenticated.Group("/subjects")
		{
			subjects.GET("", c.Subject.GetAll)
			subjects.GET("/:id", c.Subject.GetByID)

			subjectsAdmin := subjects.Group("")
			subjectsAdmin.Use(authMiddleware.AdminRequired())
			{
				subjectsAdmin.POST("", c.Subject.Create)
				subjectsAdmin.PUT("/:id", c.Subject.Update)
				subjectsAdmin.DELETE("/:id", c.Subject.Delete)
			}
		}

		lessons := authenticated.Group("/lessons")
		{
			lessons.GET("", c.Subject.GetLessons)
			lessons.GET("/:id", c.Subject.GetLessonByID)
			lessons.GET("/:id/assignments", c.Subject.GetLessonTemplates)

			lessonsAdmin := lessons.Group("")
			lessonsAdmin.Use(authMiddleware.AdminRequired())
			{
				lessonsAdmin.POST("", c.Subject.CreateLesson)
				lessonsAdmin.PUT("/:id", c.Subject.UpdateLesson)
				lessonsAdmin.DELETE("/:id", c.Subject.DeleteLesson)
				lessonsAdmin.POST("/:id/assignments", c.Subject.LinkTemplate)
				lessonsAdmin.DELETE("/:id/assignments/:templateId", c.Subject.UnlinkTemplate)
			}
		}

		assignments := authenticated.Group("/assignments")
		{
			assignments.POST("/assign", authMiddleware.AdminRequired(), c.Assignment.Assign)
			assignments.GET("/dashboard", authMiddleware.AdminRequired(), c.Assignment.Dashboard)

			templates := assignments.Group("/templates")
			templates.Use(authMiddleware.AdminRequired())
			{
				templates.POST("", c.Template.Create)
				templates.GET("", c.Template.GetAll)
				templates.GET("/export", c.Template.Export)
				templates.POST("/import", c.Template.Import)
				templates.GET("/:id", c.Template.GetByID)
				templates.PUT("/:id", c.Template.Update)
				templates.DELETE("/:id", c.Template.Delete)
				templates.POST("/:id/archive", c.Template.Archive)
				templates.POST("/:id/restore", c.Template.Restore)
				templates.GET("/:id/assignments", c.Assignment.ByTemplate)
			}

			studentAssignments := assignments.Group("/student-assignments")
			{
				studentAssignments.GET("", c.Assignment.GetAll)
				studentAssignments.GET("/:id", c.Assignment.GetByID)
				studentAssignments.POST("/:id/start", c.Assignment.Start)
				studentAssignments.POST("/:id/submit", c.Assignment.Submit)

				studentAssignmentsAdmin := studentAssignments.Group("")
				studentAssignmentsAdmin.Use(authMiddleware.AdminRequired())
				{
					studentAssignmentsAdmin.PUT("/:id", c.Assignment.Update)
					studentAssignmentsAdmin.DELETE("/:id", c.Assignment.Delete)
					studentAssignmentsAdmin.POST("/:id/grade", c.Assignment.Grade)
				}
			}
		}

		terms := authenticated.Group("/terms")
		{
			terms.GET("", c.Term.GetAll)
			terms.GET("/active", c.Term.GetActive)
			terms.GET("/:id", c.Term.GetByID)
			terms.GET("/:id/subjects", c.Term.GetSubjects)
			terms.GET("/:id/grades", c.Term.GetGrades)

			termsAdmin := terms.Group("")
			termsAdmin.Use(authMiddleware.AdminRequired())
			{
				termsAdmin.POST("", c.Term.Create)
				termsAdmin.PUT("/:id", c.Term.Update)
				termsAdmin.DELETE("/:id", c.Term.Delete)
				termsAdmin.POST("/:id/activate", c.Term.Activate)
				termsAdmin.POST("/:id/subjects/:subjectId", c.Term.AddSubject)
				termsAdmin.DELETE("/:id/subjects/:subjectId", c.Term.RemoveSubject)
				termsAdmin.POST("/:id/auto-link-subjects", c.Term.AutoLinkSubjects)
				termsAdmin.POST("/:id/calculate-grades", c.Term.CalculateGrades)
			}
		}

		attendance := authenticated.Group("/attendance")
		{
			attendance.GET("", c.Attendance.GetAll)
			attendance.GET("/:id", c.Attendance.GetByID)

			attendanceAdmin := attendance.Group("")
			attendanceAdmin.Use(authMiddleware.AdminRequired())
			{
				attendanceAdmin.GET("/students", c.Attendance.Students)
				attendanceAdmin.POST("", c.Attendance.Create)
				attendanceAdmin.POST("/bulk", c.Attendance.BulkRecord)
				attendanceAdmin.PUT("/:id", c.Attendance.Update)
				attendanceAdmin.DELETE("/:id", c.Attendance.Delete)
			}
		}

		journal := authenticated.Group("/journal")
		{
			journal.GET("/students", authMiddleware.AdminRequired(), c.Journal.Students)

			entries := journal.Group("/entries")
			{
				entries.POST("", c.Journal.Create)
				entries.GET("/student/:studentId", c.Journal.GetByStudent)
				entries.GET("/:id", c.Journal.GetByID)
				entries.PUT("/:id", c.Journal.Update)
				entries.DELETE("/:id", c.Journal.Delete)
			}
		}

		authenticated.GET("/activity/recent", c.Report.RecentActivity)

		points := authenticated.Group("/points")
		{
			points.GET("/status", c.Points.Status)
			points.GET("/balance/:studentId", c.Points.GetBalance)
			points.GET("/transactions/:studentId", c.Points.GetTransactions)
			points.POST("/spend", c.Points.Spend)

			pointsAdmin := points.Group("")
			pointsAdmin.Use(authMiddleware.AdminRequired())
			{
				pointsAdmin.POST("/adjust", c.Points.Adjust)
				pointsAdmin.POST("/toggle", c.Points.Toggle)
				pointsAdmin.GET("/overview", c.Points.Overview)
			}
		}

		settings := authenticated.Group("/settings")
		settings.Use(authMiddleware.AdminRequired())
		{
			settings.GET("", c.Settings.GetAll)
			settings.GET("/attendance/required-days", c.Settings.GetRequiredDays)
			settings.PUT("/attendance/required-days", c.Settings.SetRequiredDays)
			settings.GET("/:key", c.Settings.Get)
			settings.PUT("/:key", c.Settings.Update)
		}

		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.AdminRequired())
		{
			apiKeys := admin.Group("/api-keys")
			{
				apiKeys.POST("", c.APIKey.Create)
				apiKeys.GET("", c.APIKey.GetAll)
				apiKeys.GET("/stats", c.APIKey.Stats)
				apiKeys.GET("/permissions", c.APIKey.Permissions)
				apiKeys.GET("/:id", c.APIKey.GetByID)
				apiKeys.GET("/:id/stats", c.APIKey.StatsFor)
				apiKeys.PUT("/:id", c.APIKey.Update)
				apiKeys.DELETE("/:id", c.APIKey.Delete)
				apiKeys.POST("/:id/regenerate", c.APIKey.Regenerate)
			}

			admin.GET("/backup/export", c.Backup.Export)
			admin.POST("/backup/import", c.Backup.Import)
		}

		reports := authenticated.Group("/reports")
		{
			reports.GET("/student/:studentId", c.Report.StudentOverview)
			reports.GET("/activity/:studentId", c.Report.Activity)

			reportsAdmin := reports.Group("")
			reportsAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				reportsAdmin.GET("/admin", c.Report.AdminOverview)
				reportsAdmin.GET("/academic-years", c.Term.AcademicYears)
				reportsAdmin.GET("/attendance/export", c.Report.ExportAllAttendance)
				reportsAdmin.GET("/attendance/:studentId", c.Report.Attendance)
				reportsAdmin.GET("/attendance/:studentId/export", c.Report.ExportAttendance)
				reportsAdmin.GET("/term-grades/:termId", c.Report.TermGrades)
				reportsAdmin.GET("/term-grades/:termId/export", c.Report.ExportTermGrades)
			}
		}
	}

	// --- Integration routes (API key or admin JWT) ---
	integration := api.Group("/integration")
	{
		integration.GET("/students", authMiddleware.APIKeyOrJWT(models.PermStudentsRead), c.Student.GetAll)
		integration.GET("/attendance", authMiddleware.APIKeyOrJWT(models.PermAttendanceRead), c.Attendance.GetAll)
		integration.POST("/attendance/bulk", authMiddleware.APIKeyOrJWT(models.PermAttendanceWrite), c.Attendance.BulkRecord)
		integration.GET("/assignments", authMiddleware.APIKeyOrJWT(models.PermAssignmentsRead), c.Assignment.GetAll)
		integration.POST("/assignments/:id/grade", authMiddleware.APIKeyOrJWT(models.PermAssignmentsGrade), c.Assignment.Grade)
		integration.GET("/points/overview", authMiddleware.APIKeyOrJWT(models.PermPointsRead), c.Points.Overview)
		integration.GET("/reports/student/:studentId", authMiddleware.APIKeyOrJWT(models.PermReportsRead), c.Report.StudentOverview)
	}
}
