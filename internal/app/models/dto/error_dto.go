package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Allocation errors
	ErrorCodeNoActiveRound      ErrorCode = "ALLOC_001"
	ErrorCodeCapacityExceeded   ErrorCode = "ALLOC_002"
	ErrorCodeStudentNotEligible ErrorCode = "ALLOC_003"
	ErrorCodeNotAllocated       ErrorCode = "ALLOC_004"
	ErrorCodeCannotFreeze       ErrorCode = "ALLOC_005"

	// Resource errors
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeConflict         ErrorCode = "RES_004"

	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeInternalServer   ErrorCode = "SRV_001"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"ALLOC_002"`
	Message  string        `json:"message" example:"Maximum allocation limit reached (1 student)."`
	Field    string        `json:"field,omitempty" example:"studentId"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	Details  interface{}   `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ErrorDetail `json:"errors"`
}

// NewValidationErrors creates a new validation errors container
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]ErrorDetail, 0),
	}
}

// AddError adds a validation error to the container
func (v *ValidationErrors) AddError(field, message string) *ValidationErrors {
	v.Errors = append(v.Errors, ErrorDetail{
		Code:     ErrorCodeValidationFailed,
		Message:  message,
		Field:    field,
		Severity: ErrorSeverityError,
	})
	return v
}

// HandleValidationError converts a binding error into an ErrorDetail. Field
// errors from the validator are listed individually under details.
func HandleValidationError(err error) *ErrorDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
	}

	list := NewValidationErrors()
	for _, fe := range fieldErrs {
		list.AddError(jsonFieldName(fe), formatFieldError(fe))
	}

	detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed").WithDetails(list.Errors)
	if len(list.Errors) == 1 {
		detail.Message = list.Errors[0].Message
		detail.Field = list.Errors[0].Field
	}
	return detail
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "uuid", "uuid4":
		return field + " must be a valid UUID"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
