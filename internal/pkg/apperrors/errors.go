package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidAPIKey      = errors.New("invalid API key")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameExists      = errors.New("username already exists")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrCannotModifyAdmin   = errors.New("cannot modify another admin account")
	ErrStudentNotFound     = errors.New("student not found")
	ErrPasswordRequirement = errors.New("password does not meet requirements")
)

// Term errors
var (
	ErrTermNotFound     = errors.New("term not found")
	ErrTermOverlap      = errors.New("term with this academic year and order already exists")
	ErrTermHasRelations = errors.New("term has linked subjects and cannot be deleted")
	ErrNoActiveTerm     = errors.New("no active term configured")
)

// Assignment errors
var (
	ErrTemplateNotFound   = errors.New("assignment template not found")
	ErrAssignmentNotFound = errors.New("student assignment not found")
	ErrInvalidGrade       = errors.New("points earned exceed maximum points")
	ErrAlreadyAssigned    = errors.New("assignment already assigned to student")
)

// Attendance and journal errors
var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrDuplicateAttendance = errors.New("attendance already recorded for this student and date")
	ErrJournalNotFound     = errors.New("journal entry not found")
	ErrNotEntryAuthor      = errors.New("only the entry author can modify it")
)

// Subject and lesson errors
var (
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrSubjectAlreadyExists = errors.New("subject with this name already exists")
	ErrLessonNotFound       = errors.New("lesson not found")
)

// Points and settings errors
var (
	ErrPointsDisabled      = errors.New("points system is disabled")
	ErrInsufficientPoints  = errors.New("balance cannot go negative")
	ErrSettingNotFound     = errors.New("setting not found")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

// API key errors
var (
	ErrAPIKeyNotFound    = errors.New("API key not found")
	ErrAPIKeyExpired     = errors.New("API key expired")
	ErrInvalidPermission = errors.New("unknown permission")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}
