package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	SubjectRepository    *SubjectRepository
	TemplateRepository   *TemplateRepository
	AssignmentRepository *AssignmentRepository
	TermRepository       *TermRepository
	AttendanceRepository *AttendanceRepository
	JournalRepository    *JournalRepository
	APIKeyRepository     *APIKeyRepository
	PointsRepository     *PointsRepository
	SettingsRepository   *SettingsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		SubjectRepository:    NewSubjectRepository(db),
		TemplateRepository:   NewTemplateRepository(db),
		AssignmentRepository: NewAssignmentRepository(db),
		TermRepository:       NewTermRepository(db),
		AttendanceRepository: NewAttendanceRepository(db),
		JournalRepository:    NewJournalRepository(db),
		APIKeyRepository:     NewAPIKeyRepository(db),
		PointsRepository:     NewPointsRepository(db),
		SettingsRepository:   NewSettingsRepository(db),
	}
}
