package dto

import "time"

// CreateTemplateRequest creates an assignment template.
type CreateTemplateRequest struct {
	Title            string  `json:"title" binding:"required" validate:"max=255"`
	Description      *string `json:"description"`
	SubjectID        int64   `json:"subjectId" binding:"required"`
	AssignmentType   string  `json:"assignmentType" binding:"required" validate:"oneof=homework project test quiz essay presentation worksheet reading practice"`
	MaxPoints        int     `json:"maxPoints" validate:"omitempty,min=1"`
	EstimatedMinutes *int    `json:"estimatedMinutes" validate:"omitempty,min=1"`
	Instructions     *string `json:"instructions"`
}

// UpdateTemplateRequest partially updates a template.
type UpdateTemplateRequest struct {
	Title            *string `json:"title" validate:"omitempty,max=255"`
	Description      *string `json:"description"`
	SubjectID        *int64  `json:"subjectId"`
	AssignmentType   *string `json:"assignmentType" validate:"omitempty,oneof=homework project test quiz essay presentation worksheet reading practice"`
	MaxPoints        *int    `json:"maxPoints" validate:"omitempty,min=1"`
	EstimatedMinutes *int    `json:"estimatedMinutes" validate:"omitempty,min=1"`
	Instructions     *string `json:"instructions"`
}

// AssignRequest bulk-assigns a template to students.
type AssignRequest struct {
	TemplateID int64   `json:"templateId" binding:"required"`
	StudentIDs []int64 `json:"studentIds" binding:"required"`
	DueDate    string  `json:"dueDate" binding:"required" validate:"datetime=2006-01-02"`
}

// AssignResult reports the outcome of a bulk assign.
type AssignResult struct {
	Assigned int     `json:"assigned"`
	Skipped  int     `json:"skipped"`
	Created  []int64 `json:"createdIds"`
}

// UpdateStudentAssignmentRequest updates progress fields on a student
// assignment. Status transitions stamp started/submitted dates.
type UpdateStudentAssignmentRequest struct {
	Status          *string `json:"status" validate:"omitempty,oneof=not_started in_progress submitted graded overdue excused"`
	DueDate         *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	ExtendedDueDate *string `json:"extendedDueDate" validate:"omitempty,datetime=2006-01-02"`
	Notes           *string `json:"notes"`
}

// GradeRequest grades a student assignment.
type GradeRequest struct {
	PointsEarned    float64 `json:"pointsEarned" validate:"min=0"`
	CustomMaxPoints *int    `json:"customMaxPoints" validate:"omitempty,min=1"`
	TeacherFeedback *string `json:"teacherFeedback"`
}

// AssignmentFilter narrows student assignment listings.
type AssignmentFilter struct {
	StudentID  *int64
	TemplateID *int64
	SubjectID  *int64
	Status     *string
	Type       *string
	FromDate   *time.Time
	ToDate     *time.Time
}

// TemplateFilter narrows template listings.
type TemplateFilter struct {
	SubjectID *int64
	Type      *string
	Archived  *bool
	Search    string
}

// DashboardOverview is the admin assignment dashboard payload.
type DashboardOverview struct {
	TotalAssignments int               `json:"totalAssignments"`
	StatusCounts     map[string]int    `json:"statusCounts"`
	OverdueCount     int               `json:"overdueCount"`
	PendingGrading   int               `json:"pendingGrading"`
	RecentGrades     interface{}       `json:"recentGrades"`
	StudentSummaries []StudentWorkload `json:"studentSummaries"`
}

// StudentWorkload summarizes one student's outstanding work.
type StudentWorkload struct {
	StudentID   int64  `json:"studentId"`
	StudentName string `json:"studentName"`
	Open        int    `json:"open"`
	Overdue     int    `json:"overdue"`
	Submitted   int    `json:"submitted"`
	Graded      int    `json:"graded"`
}

// TemplateExportDocument is the template export wire format.
type TemplateExportDocument struct {
	ExportMetadata ExportMetadata   `json:"export_metadata"`
	Templates      []TemplateExport `json:"templates"`
}

// ExportMetadata describes an export document.
type ExportMetadata struct {
	FormatVersion string    `json:"format_version"`
	ExportedAt    time.Time `json:"exported_at"`
	Count         int       `json:"count"`
}

// TemplateExport is one template in an export document. Subjects are
// referenced by name so imports can recreate them.
type TemplateExport struct {
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	SubjectName      string  `json:"subject_name"`
	AssignmentType   string  `json:"assignment_type"`
	MaxPoints        int     `json:"max_points"`
	EstimatedMinutes *int    `json:"estimated_minutes,omitempty"`
	Instructions     *string `json:"instructions,omitempty"`
}

// TemplateImportResult reports the outcome of a template import.
type TemplateImportResult struct {
	Created         int      `json:"created"`
	Skipped         int      `json:"skipped"`
	SubjectsCreated []string `json:"subjectsCreated"`
}
