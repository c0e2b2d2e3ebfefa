package controllers

import (
	"context"
	"time"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
)

// The controllers consume their services through these interfaces;
// the services package provides the production implementations and
// handler tests substitute stubs.

// AuthService signs users in and serves their session.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	ExtendSession(ctx context.Context, userID int64) (*dto.TokenResponse, error)
	GetProfile(ctx context.Context, userID int64) (*dto.UserSummary, error)
}

// UserService manages user accounts and passwords.
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, authenticated bool) (*dto.UserSummary, error)
	GetAll(ctx context.Context) ([]dto.UserSummary, error)
	GetByID(ctx context.Context, id int64) (*dto.UserSummary, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*dto.UserSummary, error)
	Delete(ctx context.Context, id, callerID int64) error
	ResetPassword(ctx context.Context, id int64) (*dto.ResetPasswordResponse, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
	HasAnyUser(ctx context.Context) (bool, error)
}

// StudentService manages student accounts.
type StudentService interface {
	Create(ctx context.Context, parentID int64, req *dto.CreateStudentRequest) (*dto.UserSummary, error)
	GetAll(ctx context.Context) ([]dto.UserSummary, error)
	GetByID(ctx context.Context, id int64) (*dto.UserSummary, error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.UserSummary, error)
	Delete(ctx context.Context, id int64) error
}

// StudentDirectory is the student listing shared by the attendance
// and journal entry screens.
type StudentDirectory interface {
	GetAll(ctx context.Context) ([]dto.UserSummary, error)
}

// SubjectService manages subjects, lessons and their template links.
type SubjectService interface {
	Create(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error)
	GetAll(ctx context.Context, includeInactive bool) ([]*models.Subject, error)
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id int64) error
	CreateLesson(ctx context.Context, req *dto.CreateLessonRequest) (*models.Lesson, error)
	GetLessons(ctx context.Context, subjectID *int64) ([]*models.Lesson, error)
	GetLessonByID(ctx context.Context, id int64) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, id int64, req *dto.UpdateLessonRequest) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
	LinkTemplate(ctx context.Context, lessonID int64, req *dto.LinkLessonAssignmentRequest) error
	UnlinkTemplate(ctx context.Context, lessonID, templateID int64) error
	GetLessonTemplates(ctx context.Context, lessonID int64) ([]*models.AssignmentTemplate, error)
}

// TemplateService manages assignment templates.
type TemplateService interface {
	Create(ctx context.Context, createdBy int64, req *dto.CreateTemplateRequest) (*models.AssignmentTemplate, error)
	GetAll(ctx context.Context, filter dto.TemplateFilter) ([]*models.AssignmentTemplate, error)
	GetByID(ctx context.Context, id int64) (*models.AssignmentTemplate, error)
	Update(ctx context.Context, id int64, req *dto.UpdateTemplateRequest) (*models.AssignmentTemplate, error)
	Archive(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, filter dto.TemplateFilter) (*dto.TemplateExportDocument, error)
	Import(ctx context.Context, createdBy int64, doc *dto.TemplateExportDocument) (*dto.TemplateImportResult, error)
}

// AssignmentService manages issued student assignments.
type AssignmentService interface {
	Assign(ctx context.Context, req *dto.AssignRequest) (*dto.AssignResult, error)
	GetAll(ctx context.Context, filter dto.AssignmentFilter) ([]*models.StudentAssignment, error)
	GetByID(ctx context.Context, id int64) (*models.StudentAssignment, error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentAssignmentRequest) (*models.StudentAssignment, error)
	Start(ctx context.Context, id, studentID int64) (*models.StudentAssignment, error)
	Submit(ctx context.Context, id, studentID int64) (*models.StudentAssignment, error)
	Grade(ctx context.Context, id, gradedBy int64, req *dto.GradeRequest) (*models.StudentAssignment, error)
	Delete(ctx context.Context, id int64) error
	Dashboard(ctx context.Context) (*dto.DashboardOverview, error)
}

// TermService manages academic terms and term grades.
type TermService interface {
	Create(ctx context.Context, req *dto.CreateTermRequest) (*models.Term, error)
	GetAll(ctx context.Context) ([]*models.Term, error)
	GetByID(ctx context.Context, id int64) (*models.Term, error)
	GetActive(ctx context.Context) (*models.Term, error)
	AcademicYears(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id int64, req *dto.UpdateTermRequest) (*models.Term, error)
	Delete(ctx context.Context, id int64) error
	Activate(ctx context.Context, id int64) (*models.Term, error)
	AddSubject(ctx context.Context, termID, subjectID int64) error
	RemoveSubject(ctx context.Context, termID, subjectID int64) error
	GetSubjects(ctx context.Context, termID int64) ([]*models.TermSubject, error)
	AutoLinkSubjects(ctx context.Context, termID int64) (*dto.AutoLinkResult, error)
	CalculateGrades(ctx context.Context, termID int64) (*dto.CalculateGradesResult, error)
	GetGrades(ctx context.Context, termID int64) ([]*models.StudentTermGrade, error)
}

// AttendanceService manages daily attendance records.
type AttendanceService interface {
	Create(ctx context.Context, createdBy int64, req *dto.CreateAttendanceRequest) (*models.AttendanceRecord, error)
	BulkRecord(ctx context.Context, createdBy int64, req *dto.BulkAttendanceRequest) (*dto.BulkAttendanceResult, error)
	GetAll(ctx context.Context, filter dto.AttendanceFilter) ([]*models.AttendanceRecord, error)
	GetByID(ctx context.Context, id int64) (*models.AttendanceRecord, error)
	Update(ctx context.Context, id int64, req *dto.UpdateAttendanceRequest) (*models.AttendanceRecord, error)
	Delete(ctx context.Context, id int64) error
}

// JournalService manages journal entries.
type JournalService interface {
	Create(ctx context.Context, authorID int64, authorRole models.UserRole, req *dto.CreateJournalEntryRequest) (*models.JournalEntry, error)
	GetByStudent(ctx context.Context, callerID int64, callerRole models.UserRole, studentID int64, from, to *time.Time) ([]*models.JournalEntry, error)
	GetByID(ctx context.Context, callerID int64, callerRole models.UserRole, id int64) (*models.JournalEntry, error)
	Update(ctx context.Context, callerID, id int64, req *dto.UpdateJournalEntryRequest) (*models.JournalEntry, error)
	Delete(ctx context.Context, callerID, id int64) error
}

// PointsService manages the reward points ledger.
type PointsService interface {
	Enabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error
	GetBalance(ctx context.Context, studentID int64) (*models.StudentPoints, error)
	Adjust(ctx context.Context, adminID int64, req *dto.AdjustPointsRequest) (*models.StudentPoints, error)
	Spend(ctx context.Context, studentID, amount int64, reason string) (*models.StudentPoints, error)
	GetTransactions(ctx context.Context, studentID int64, limit int) ([]*models.PointTransaction, error)
	Overview(ctx context.Context) (*dto.PointsOverview, error)
}

// SettingsService manages typed system settings.
type SettingsService interface {
	GetAll(ctx context.Context) ([]*models.SystemSetting, error)
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	Update(ctx context.Context, key string, req *dto.UpdateSettingRequest) (*models.SystemSetting, error)
	GetRequiredDays(ctx context.Context) (int, error)
	SetRequiredDays(ctx context.Context, days int) error
}

// APIKeyService manages machine credentials.
type APIKeyService interface {
	Create(ctx context.Context, createdBy int64, req *dto.CreateAPIKeyRequest) (*dto.APIKeyCreatedResponse, error)
	GetAll(ctx context.Context) ([]*models.APIKey, error)
	GetByID(ctx context.Context, id int64) (*models.APIKey, error)
	Update(ctx context.Context, id int64, req *dto.UpdateAPIKeyRequest) (*models.APIKey, error)
	Regenerate(ctx context.Context, id int64) (*dto.APIKeyCreatedResponse, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) ([]dto.APIKeyStats, error)
	StatsFor(ctx context.Context, id int64) (*dto.APIKeyStats, error)
	AvailablePermissions() []string
}

// ReportService builds reports, overviews and exports.
type ReportService interface {
	AttendanceReport(ctx context.Context, studentID int64, from, to time.Time) (*dto.AttendanceReport, error)
	StudentOverview(ctx context.Context, studentID int64) (*dto.StudentOverview, error)
	AdminOverview(ctx context.Context) (*dto.AdminOverview, error)
	TermGradeReport(ctx context.Context, termID int64) (*dto.TermGradeReport, error)
	ExportTermGradesXLSX(ctx context.Context, termID int64) ([]byte, string, error)
	ExportAttendanceXLSX(ctx context.Context, studentID int64, from, to time.Time) ([]byte, string, error)
	ExportAllAttendanceXLSX(ctx context.Context, from, to time.Time) ([]byte, string, error)
}

// ActivityService builds recent activity feeds.
type ActivityService interface {
	ForStudent(ctx context.Context, studentID int64, limit int) ([]dto.ActivityItem, error)
	Recent(ctx context.Context, studentID *int64, limit, days int) ([]dto.ActivityItem, error)
}

// BackupService exports and restores full system snapshots.
type BackupService interface {
	Export(ctx context.Context) (*dto.BackupDocument, error)
	Import(ctx context.Context, doc *dto.BackupDocument) (*dto.ImportResult, error)
}
