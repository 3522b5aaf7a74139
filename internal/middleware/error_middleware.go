package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taallocation/internal/app/models/dto"
	"github.com/yigit/taallocation/internal/pkg/apperrors"
	"github.com/yigit/taallocation/internal/pkg/logger"
	"github.com/yigit/taallocation/internal/pkg/observability"
)

// apiError maps one sentinel to its HTTP status, code and default message
type apiError struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Order matters: allocation kinds first, generic kinds after.
var apiErrors = []apiError{
	{apperrors.ErrNoActiveRound, http.StatusBadRequest, dto.ErrorCodeNoActiveRound, "No ongoing round for allocation."},
	{apperrors.ErrCapacityExceeded, http.StatusBadRequest, dto.ErrorCodeCapacityExceeded, "Maximum allocation limit reached."},
	{apperrors.ErrStudentNotEligible, http.StatusBadRequest, dto.ErrorCodeStudentNotEligible, "Student is not available for allocation"},
	{apperrors.ErrNotAllocated, http.StatusBadRequest, dto.ErrorCodeNotAllocated, "Student is not allocated"},
	{apperrors.ErrCannotFreeze, http.StatusBadRequest, dto.ErrorCodeCannotFreeze, "Cannot freeze allocation"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, e := range apiErrors {
		if !errors.Is(err, e.target) {
			continue
		}
		detail := dto.NewErrorDetail(e.code, apperrors.Message(err, e.message))
		var ce *apperrors.CustomError
		if errors.As(err, &ce) && len(ce.Details) > 0 {
			detail = detail.WithDetails(ce.Details)
		}
		if e.status < http.StatusInternalServerError {
			detail = detail.WithSeverity(dto.ErrorSeverityWarning)
		}
		c.AbortWithStatusJSON(e.status, dto.NewErrorResponse(detail))
		return
	}

	// Handle unknown errors
	route := c.FullPath()
	logger.Error().Err(err).Str("method", c.Request.Method).Str("route", route).Msg("Unhandled request error")
	observability.CaptureRequestErr(err, c.Request.Method, route)

	detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
}
