package dto

import "time"

// BackupFormatVersion is the wire version of backup documents.
const BackupFormatVersion = "1.0"

// BackupDocument is a full JSON snapshot of the system. Password and
// key hashes are never exported; restored accounts need a password
// reset. Cross-references use usernames and names so a backup restores
// cleanly into a fresh database.
type BackupDocument struct {
	FormatVersion   string                    `json:"format_version"`
	BackupTimestamp time.Time                 `json:"backup_timestamp"`
	SystemInfo      BackupSystemInfo          `json:"system_info"`
	Users           []BackupUser              `json:"users"`
	Subjects        []BackupSubject           `json:"subjects"`
	Terms           []BackupTerm              `json:"terms"`
	Templates       []BackupTemplate          `json:"templates"`
	Assignments     []BackupStudentAssignment `json:"assignments"`
	Attendance      []BackupAttendance        `json:"attendance"`
	Journal         []BackupJournalEntry      `json:"journal"`
	Settings        []BackupSetting           `json:"settings"`
}

// BackupSystemInfo describes the exporting system.
type BackupSystemInfo struct {
	Application string `json:"application"`
	Version     string `json:"version"`
}

// BackupUser is an account snapshot without credentials.
type BackupUser struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Role           string  `json:"role"`
	ParentUsername *string `json:"parent_username,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
	GradeLevel     *string `json:"grade_level,omitempty"`
	IsActive       bool    `json:"is_active"`
}

// BackupSubject is a subject snapshot.
type BackupSubject struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color"`
	IsActive    bool    `json:"is_active"`
}

// BackupTerm is a term snapshot.
type BackupTerm struct {
	Name         string   `json:"name"`
	TermType     string   `json:"term_type"`
	AcademicYear string   `json:"academic_year"`
	TermOrder    int      `json:"term_order"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	IsActive     bool     `json:"is_active"`
	SubjectNames []string `json:"subject_names"`
}

// BackupTemplate is a template snapshot keyed by subject name.
type BackupTemplate struct {
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	SubjectName      string  `json:"subject_name"`
	AssignmentType   string  `json:"assignment_type"`
	MaxPoints        int     `json:"max_points"`
	EstimatedMinutes *int    `json:"estimated_minutes,omitempty"`
	Instructions     *string `json:"instructions,omitempty"`
	IsArchived       bool    `json:"is_archived"`
}

// BackupStudentAssignment is a student assignment snapshot keyed by
// student username and template title.
type BackupStudentAssignment struct {
	TemplateTitle   string   `json:"template_title"`
	StudentUsername string   `json:"student_username"`
	DueDate         *string  `json:"due_date,omitempty"`
	ExtendedDueDate *string  `json:"extended_due_date,omitempty"`
	Status          string   `json:"status"`
	StartedDate     *string  `json:"started_date,omitempty"`
	SubmittedDate   *string  `json:"submitted_date,omitempty"`
	PointsEarned    *float64 `json:"points_earned,omitempty"`
	CustomMaxPoints *int     `json:"custom_max_points,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	TeacherFeedback *string  `json:"teacher_feedback,omitempty"`
}

// BackupAttendance is an attendance snapshot keyed by student username.
type BackupAttendance struct {
	StudentUsername string  `json:"student_username"`
	Date            string  `json:"date"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
}

// BackupJournalEntry is a journal snapshot keyed by usernames.
type BackupJournalEntry struct {
	StudentUsername string `json:"student_username"`
	AuthorUsername  string `json:"author_username"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	EntryDate       string `json:"entry_date"`
}

// BackupSetting is a settings row snapshot.
type BackupSetting struct {
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	ValueType   string  `json:"value_type"`
	Description *string `json:"description,omitempty"`
}

// ImportResult reports per-entity restore counts.
type ImportResult struct {
	Mode     string                  `json:"mode"`
	Counts   map[string]EntityCounts `json:"counts"`
	Warnings []string                `json:"warnings,omitempty"`
}

// EntityCounts reports created/updated/skipped rows for one entity.
type EntityCounts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
