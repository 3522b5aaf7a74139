package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
)

// Allocation errors
var (
	ErrNoActiveRound      = errors.New("no ongoing round for allocation")
	ErrCapacityExceeded   = errors.New("maximum allocation limit reached")
	ErrStudentNotEligible = errors.New("student is not available for allocation")
	ErrNotAllocated       = errors.New("student is not allocated")
	ErrCannotFreeze       = errors.New("cannot freeze allocation")
)

// Entity errors. Each unwraps to ErrResourceNotFound.
var (
	ErrStudentNotFound     = NewCustomError(ErrResourceNotFound, "Student not found")
	ErrCourseNotFound      = NewCustomError(ErrResourceNotFound, "Course not found")
	ErrRoundNotFound       = NewCustomError(ErrResourceNotFound, "Round not found")
	ErrProfessorNotFound   = NewCustomError(ErrResourceNotFound, "Professor not found")
	ErrCoordinatorNotFound = NewCustomError(ErrResourceNotFound, "JM not found")
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

// NewNoActiveRoundError reports that allocation is closed
func NewNoActiveRoundError() error {
	return &CustomError{
		Err:     ErrNoActiveRound,
		Message: "No ongoing round for allocation.",
	}
}

// NewCapacityExceededError reports the course quota that was hit
func NewCapacityExceededError(limit int) error {
	unit := "students"
	if limit == 1 {
		unit = "student"
	}
	return (&CustomError{
		Err:     ErrCapacityExceeded,
		Message: fmt.Sprintf("Maximum allocation limit reached (%d %s).", limit, unit),
	}).WithDetails(map[string]interface{}{"limit": limit})
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
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

// Message returns the human-readable message carried by err, or fallback
// when err carries none.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
