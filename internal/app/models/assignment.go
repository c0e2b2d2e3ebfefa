package models

import "time"

// AssignmentTemplate is reusable work defined once and assigned to any
// number of students.
type AssignmentTemplate struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Description      *string        `json:"description,omitempty"`
	SubjectID        int64          `json:"subjectId"`
	AssignmentType   AssignmentType `json:"assignmentType"`
	MaxPoints        int            `json:"maxPoints"`
	EstimatedMinutes *int           `json:"estimatedMinutes,omitempty"`
	Instructions     *string        `json:"instructions,omitempty"`
	IsArchived       bool           `json:"isArchived"`
	CreatedBy        *int64         `json:"createdBy,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`

	SubjectName  string `json:"subjectName,omitempty"`
	SubjectColor string `json:"subjectColor,omitempty"`
}

// StudentAssignment is one student's instance of a template, carrying
// progress and grading state.
type StudentAssignment struct {
	ID              int64            `json:"id"`
	TemplateID      int64            `json:"templateId"`
	StudentID       int64            `json:"studentId"`
	TermID          *int64           `json:"termId,omitempty"`
	DueDate         *time.Time       `json:"dueDate,omitempty"`
	ExtendedDueDate *time.Time       `json:"extendedDueDate,omitempty"`
	Status          AssignmentStatus `json:"status"`
	StartedDate     *time.Time       `json:"startedDate,omitempty"`
	SubmittedDate   *time.Time       `json:"submittedDate,omitempty"`
	PointsEarned    *float64         `json:"pointsEarned,omitempty"`
	CustomMaxPoints *int             `json:"customMaxPoints,omitempty"`
	PercentageGrade *float64         `json:"percentageGrade,omitempty"`
	LetterGrade     *string          `json:"letterGrade,omitempty"`
	GradedDate      *time.Time       `json:"gradedDate,omitempty"`
	GradedBy        *int64           `json:"gradedBy,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	TeacherFeedback *string          `json:"teacherFeedback,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`

	// Denormalized display fields populated by list queries.
	Template    *AssignmentTemplate `json:"template,omitempty"`
	StudentName string              `json:"studentName,omitempty"`
}

// MaxPoints returns the effective maximum: a per-student override when
// set, the template maximum otherwise.
func (a *StudentAssignment) MaxPoints() int {
	if a.CustomMaxPoints != nil && *a.CustomMaxPoints > 0 {
		return *a.CustomMaxPoints
	}
	if a.Template != nil {
		return a.Template.MaxPoints
	}
	return 0
}

// EffectiveDueDate returns the extended due date when one was granted,
// the original otherwise.
func (a *StudentAssignment) EffectiveDueDate() *time.Time {
	if a.ExtendedDueDate != nil {
		return a.ExtendedDueDate
	}
	return a.DueDate
}

// ResolveStatus derives the current lifecycle status. Grading and
// submission take precedence, then started work; an untouched
// assignment past its effective due date is overdue. Excused
// assignments stay excused.
func (a *StudentAssignment) ResolveStatus(today time.Time) AssignmentStatus {
	if a.Status == StatusExcused {
		return StatusExcused
	}
	if a.PointsEarned != nil || a.Status == StatusGraded {
		return StatusGraded
	}
	if a.SubmittedDate != nil {
		return StatusSubmitted
	}
	if a.StartedDate != nil {
		return StatusInProgress
	}
	if due := a.EffectiveDueDate(); due != nil {
		dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
		nowDay := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if nowDay.After(dueDay) {
			return StatusOverdue
		}
	}
	return StatusNotStarted
}
