package dto

// CreateTermRequest creates a term.
type CreateTermRequest struct {
	Name         string `json:"name" binding:"required" validate:"max=100"`
	TermType     string `json:"termType" validate:"omitempty,oneof=semester quarter trimester custom"`
	AcademicYear string `json:"academicYear" binding:"required" validate:"academic_year"`
	TermOrder    int    `json:"termOrder" validate:"omitempty,min=1"`
	StartDate    string `json:"startDate" binding:"required" validate:"datetime=2006-01-02"`
	EndDate      string `json:"endDate" binding:"required" validate:"datetime=2006-01-02"`
}

// UpdateTermRequest partially updates a term.
type UpdateTermRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	TermType     *string `json:"termType" validate:"omitempty,oneof=semester quarter trimester custom"`
	AcademicYear *string `json:"academicYear" validate:"omitempty,academic_year"`
	TermOrder    *int    `json:"termOrder" validate:"omitempty,min=1"`
	StartDate    *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// AutoLinkResult reports subjects attached by auto-linking.
type AutoLinkResult struct {
	LinkedSubjects []string `json:"linkedSubjects"`
	AlreadyLinked  int      `json:"alreadyLinked"`
}

// CalculateGradesResult reports a term grade recalculation.
type CalculateGradesResult struct {
	GradesCalculated int `json:"gradesCalculated"`
	GradesChanged    int `json:"gradesChanged"`
}
