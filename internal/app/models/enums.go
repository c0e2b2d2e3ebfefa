package models

// UserRole identifies the two account types in the system.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// AttendanceStatus is the recorded state of a student for one school day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Valid reports whether the status is one of the known values.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// CountsAsAttended reports whether the status counts toward days attended.
func (s AttendanceStatus) CountsAsAttended() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// AssignmentType categorizes assignment templates.
type AssignmentType string

const (
	TypeHomework     AssignmentType = "homework"
	TypeProject      AssignmentType = "project"
	TypeTest         AssignmentType = "test"
	TypeQuiz         AssignmentType = "quiz"
	TypeEssay        AssignmentType = "essay"
	TypePresentation AssignmentType = "presentation"
	TypeWorksheet    AssignmentType = "worksheet"
	TypeReading      AssignmentType = "reading"
	TypePractice     AssignmentType = "practice"
)

// Valid reports whether the type is one of the known values.
func (t AssignmentType) Valid() bool {
	switch t {
	case TypeHomework, TypeProject, TypeTest, TypeQuiz, TypeEssay,
		TypePresentation, TypeWorksheet, TypeReading, TypePractice:
		return true
	}
	return false
}

// AssignmentStatus tracks a student assignment through its lifecycle.
type AssignmentStatus string

const (
	StatusNotStarted AssignmentStatus = "not_started"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusSubmitted  AssignmentStatus = "submitted"
	StatusGraded     AssignmentStatus = "graded"
	StatusOverdue    AssignmentStatus = "overdue"
	StatusExcused    AssignmentStatus = "excused"
)

// Valid reports whether the status is one of the known values.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusSubmitted,
		StatusGraded, StatusOverdue, StatusExcused:
		return true
	}
	return false
}

// TermType categorizes academic terms.
type TermType string

const (
	TermSemester  TermType = "semester"
	TermQuarter   TermType = "quarter"
	TermTrimester TermType = "trimester"
	TermCustom    TermType = "custom"
)

// Valid reports whether the type is one of the known values.
func (t TermType) Valid() bool {
	switch t {
	case TermSemester, TermQuarter, TermTrimester, TermCustom:
		return true
	}
	return false
}

// PointTransactionType identifies the origin of a points ledger entry.
type PointTransactionType string

const (
	PointsFromAssignment PointTransactionType = "assignment"
	PointsAdminAward     PointTransactionType = "admin_award"
	PointsAdminDeduction PointTransactionType = "admin_deduction"
	PointsSpending       PointTransactionType = "spending"
)

// Valid reports whether the type is one of the known values.
func (t PointTransactionType) Valid() bool {
	switch t {
	case PointsFromAssignment, PointsAdminAward, PointsAdminDeduction, PointsSpending:
		return true
	}
	return false
}
