package models

import "time"

// Term is a grading period within an academic year. At most one term is
// active at a time.
type Term struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	TermType     TermType  `json:"termType"`
	AcademicYear string    `json:"academicYear"`
	TermOrder    int       `json:"termOrder"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Contains reports whether the given date falls inside the term.
func (t *Term) Contains(date time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(t.StartDate.Year(), t.StartDate.Month(), t.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(t.EndDate.Year(), t.EndDate.Month(), t.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

// TermSubject links a subject into a term's grading scope.
type TermSubject struct {
	ID        int64     `json:"id"`
	TermID    int64     `json:"termId"`
	SubjectID int64     `json:"subjectId"`
	CreatedAt time.Time `json:"createdAt"`

	SubjectName string `json:"subjectName,omitempty"`
}

// StudentTermGrade is the aggregated grade for one student in one
// subject across a term.
type StudentTermGrade struct {
	ID              int64     `json:"id"`
	StudentID       int64     `json:"studentId"`
	SubjectID       int64     `json:"subjectId"`
	TermID          int64     `json:"termId"`
	PointsEarned    float64   `json:"pointsEarned"`
	PointsPossible  float64   `json:"pointsPossible"`
	PercentageGrade *float64  `json:"percentageGrade,omitempty"`
	LetterGrade     *string   `json:"letterGrade,omitempty"`
	AssignmentCount int       `json:"assignmentCount"`
	LastCalculated  time.Time `json:"lastCalculated"`

	StudentName string `json:"studentName,omitempty"`
	SubjectName string `json:"subjectName,omitempty"`
}

// GradeHistory records a term grade change for auditability.
type GradeHistory struct {
	ID            int64     `json:"id"`
	StudentID     int64     `json:"studentId"`
	SubjectID     int64     `json:"subjectId"`
	TermID        int64     `json:"termId"`
	OldPercentage *float64  `json:"oldPercentage,omitempty"`
	NewPercentage *float64  `json:"newPercentage,omitempty"`
	OldLetter     *string   `json:"oldLetter,omitempty"`
	NewLetter     *string   `json:"newLetter,omitempty"`
	ChangedAt     time.Time `json:"changedAt"`
}
