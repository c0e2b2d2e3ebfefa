package models

import "time"

// DefaultSubjectColor is the hex color assigned to subjects created
// without an explicit color.
const DefaultSubjectColor = "#3B82F6"

// Subject is a course of study (Math, Reading, Science, ...).
type Subject struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Lesson is a scheduled block of instruction within a subject.
type Lesson struct {
	ID              int64      `json:"id"`
	SubjectID       int64      `json:"subjectId"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	ScheduledDate   *time.Time `json:"scheduledDate,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	SubjectName string `json:"subjectName,omitempty"`
}

// LessonAssignment links an assignment template to a lesson.
type LessonAssignment struct {
	ID         int64 `json:"id"`
	LessonID   int64 `json:"lessonId"`
	TemplateID int64 `json:"templateId"`
	OrderIndex int   `json:"orderIndex"`
}
