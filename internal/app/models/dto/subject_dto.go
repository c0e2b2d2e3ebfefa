package dto

// CreateSubjectRequest creates a subject.
type CreateSubjectRequest struct {
	Name        string  `json:"name" binding:"required" validate:"max=100"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateSubjectRequest partially updates a subject.
type UpdateSubjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	IsActive    *bool   `json:"isActive"`
}

// CreateLessonRequest creates a lesson within a subject.
type CreateLessonRequest struct {
	SubjectID       int64   `json:"subjectId" binding:"required"`
	Title           string  `json:"title" binding:"required" validate:"max=255"`
	Description     *string `json:"description"`
	ScheduledDate   *string `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
	DurationMinutes *int    `json:"durationMinutes" validate:"omitempty,min=1"`
}

// UpdateLessonRequest partially updates a lesson.
type UpdateLessonRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=255"`
	Description     *string `json:"description"`
	ScheduledDate   *string `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
	DurationMinutes *int    `json:"durationMinutes" validate:"omitempty,min=1"`
}

// LinkLessonAssignmentRequest attaches a template to a lesson.
type LinkLessonAssignmentRequest struct {
	TemplateID int64 `json:"templateId" binding:"required"`
	OrderIndex int   `json:"orderIndex"`
}
