package dto

// CreateStudentRequest creates a managed student account. The creating
// admin becomes the student's parent.
type CreateStudentRequest struct {
	Username    string  `json:"username" binding:"required" validate:"min=3,max=100"`
	Email       string  `json:"email" binding:"required" validate:"email"`
	FirstName   string  `json:"firstName" binding:"required"`
	LastName    string  `json:"lastName" binding:"required"`
	Password    string  `json:"password" binding:"required" validate:"min=6"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	GradeLevel  *string `json:"gradeLevel"`
}

// UpdateStudentRequest partially updates a student account.
type UpdateStudentRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	GradeLevel  *string `json:"gradeLevel"`
	IsActive    *bool   `json:"isActive"`
}
