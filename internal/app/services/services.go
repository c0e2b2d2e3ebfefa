package services

import (
	"github.com/rs/zerolog"

	"github.com/ourschool/ourschool/internal/app/repositories"
	"github.com/ourschool/ourschool/internal/cache"
	"github.com/ourschool/ourschool/internal/pkg/auth"
)

// Services aggregates every business service behind one handle for the
// controllers and the bootstrap wiring.
type Services struct {
	Auth       *AuthService
	User       *UserService
	Student    *StudentService
	Subject    *SubjectService
	Template   *TemplateService
	Assignment *AssignmentService
	Term       *TermService
	Attendance *AttendanceService
	Journal    *JournalService
	Points     *PointsService
	Settings   *SettingsService
	APIKey     *APIKeyService
	Activity   *ActivityService
	Report     *ReportService
	Backup     *BackupService
}

// NewServices wires all services against the repository layer.
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	reportCache *cache.ReportCache,
	version string,
	logger zerolog.Logger,
) *Services {
	subjectSvc := NewSubjectService(repos.SubjectRepository, logger)
	activitySvc := NewActivityService(
		repos.AssignmentRepository,
		repos.AttendanceRepository,
		repos.JournalRepository,
		repos.UserRepository,
		logger,
	)

	return &Services{
		Auth: NewAuthService(
			repos.UserRepository,
			repos.APIKeyRepository,
			jwtService,
			logger,
		),
		User:    NewUserService(repos.UserRepository, logger),
		Student: NewStudentService(repos.UserRepository, logger),
		Subject: subjectSvc,
		Template: NewTemplateService(
			repos.TemplateRepository,
			repos.AssignmentRepository,
			subjectSvc,
			logger,
		),
		Assignment: NewAssignmentService(
			repos.AssignmentRepository,
			repos.TemplateRepository,
			repos.UserRepository,
			repos.TermRepository,
			repos.PointsRepository,
			repos.SettingsRepository,
			reportCache,
			logger,
		),
		Term: NewTermService(
			repos.TermRepository,
			repos.SubjectRepository,
			repos.AssignmentRepository,
			logger,
		),
		Attendance: NewAttendanceService(
			repos.AttendanceRepository,
			repos.UserRepository,
			reportCache,
			logger,
		),
		Journal: NewJournalService(
			repos.JournalRepository,
			repos.UserRepository,
			logger,
		),
		Points: NewPointsService(
			repos.PointsRepository,
			repos.UserRepository,
			repos.SettingsRepository,
			logger,
		),
		Settings: NewSettingsService(repos.SettingsRepository, logger),
		APIKey:   NewAPIKeyService(repos.APIKeyRepository, logger),
		Activity: activitySvc,
		Report: NewReportService(
			repos.UserRepository,
			repos.AttendanceRepository,
			repos.AssignmentRepository,
			repos.TermRepository,
			repos.PointsRepository,
			repos.SettingsRepository,
			activitySvc,
			reportCache,
			logger,
		),
		Backup: NewBackupService(repos, subjectSvc, version, logger),
	}
}
