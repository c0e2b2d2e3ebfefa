package dto

import "time"

// AttendanceReport is a per-student attendance summary over a range.
type AttendanceReport struct {
	StudentID        int64      `json:"studentId"`
	StudentName      string     `json:"studentName"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          time.Time  `json:"endDate"`
	SchoolDays       int        `json:"schoolDays"`
	RequiredDays     int        `json:"requiredDays"`
	PresentDays      int        `json:"presentDays"`
	AbsentDays       int        `json:"absentDays"`
	LateDays         int        `json:"lateDays"`
	ExcusedDays      int        `json:"excusedDays"`
	DaysAttended     int        `json:"daysAttended"`
	AttendanceRate   float64    `json:"attendanceRate"`
	FirstAbsenceDate *time.Time `json:"firstAbsenceDate,omitempty"`
	RecentActivity   []string   `json:"recentActivity"`
}

// GradeSummary aggregates a student's graded work.
type GradeSummary struct {
	GradedCount       int      `json:"gradedCount"`
	AveragePercentage *float64 `json:"averagePercentage,omitempty"`
	AverageLetter     *string  `json:"averageLetter,omitempty"`
}

// StudentOverview is the per-student report landing payload.
type StudentOverview struct {
	StudentID      int64            `json:"studentId"`
	StudentName    string           `json:"studentName"`
	Attendance     AttendanceReport `json:"attendance"`
	Grades         GradeSummary     `json:"grades"`
	OpenWork       int              `json:"openWork"`
	OverdueWork    int              `json:"overdueWork"`
	PointsBalance  *int             `json:"pointsBalance,omitempty"`
	RecentActivity []ActivityItem   `json:"recentActivity"`
}

// AdminOverview is the cross-student dashboard payload.
type AdminOverview struct {
	StudentCount   int               `json:"studentCount"`
	ActiveTermName *string           `json:"activeTermName,omitempty"`
	Students       []StudentOverview `json:"students"`
	PendingGrading int               `json:"pendingGrading"`
}

// TermGradeReport is a full grade report for one term.
type TermGradeReport struct {
	TermID       int64          `json:"termId"`
	TermName     string         `json:"termName"`
	AcademicYear string         `json:"academicYear"`
	Rows         []TermGradeRow `json:"rows"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}

// TermGradeRow is one student/subject line in a term grade report.
type TermGradeRow struct {
	StudentID       int64    `json:"studentId"`
	StudentName     string   `json:"studentName"`
	SubjectID       int64    `json:"subjectId"`
	SubjectName     string   `json:"subjectName"`
	PointsEarned    float64  `json:"pointsEarned"`
	PointsPossible  float64  `json:"pointsPossible"`
	PercentageGrade *float64 `json:"percentageGrade,omitempty"`
	LetterGrade     *string  `json:"letterGrade,omitempty"`
	AssignmentCount int      `json:"assignmentCount"`
}
