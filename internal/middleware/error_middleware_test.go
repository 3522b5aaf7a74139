package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/taallocation/internal/app/models/dto"
	"github.com/yigit/taallocation/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()

	router := gin.New()
	router.GET("/fail", func(c *gin.Context) {
		HandleAPIError(c, err)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     dto.ErrorCode
		message  string
		severity dto.ErrorSeverity
	}{
		{
			name:     "no active round",
			err:      apperrors.NewNoActiveRoundError(),
			status:   http.StatusBadRequest,
			code:     dto.ErrorCodeNoActiveRound,
			message:  "No ongoing round for allocation.",
			severity: dto.ErrorSeverityWarning,
		},
		{
			name:     "capacity exceeded",
			err:      apperrors.NewCapacityExceededError(2),
			status:   http.StatusBadRequest,
			code:     dto.ErrorCodeCapacityExceeded,
			message:  "Maximum allocation limit reached (2 students).",
			severity: dto.ErrorSeverityWarning,
		},
		{
			name:     "not eligible",
			err:      apperrors.NewCustomError(apperrors.ErrStudentNotEligible, "Student is not available for allocation"),
			status:   http.StatusBadRequest,
			code:     dto.ErrorCodeStudentNotEligible,
			message:  "Student is not available for allocation",
			severity: dto.ErrorSeverityWarning,
		},
		{
			name:     "bare sentinel uses default message",
			err:      apperrors.ErrCannotFreeze,
			status:   http.StatusBadRequest,
			code:     dto.ErrorCodeCannotFreeze,
			message:  "Cannot freeze allocation",
			severity: dto.ErrorSeverityWarning,
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("deallocate: %w", apperrors.ErrStudentNotFound),
			status:   http.StatusNotFound,
			code:     dto.ErrorCodeResourceNotFound,
			message:  "Student not found",
			severity: dto.ErrorSeverityWarning,
		},
		{
			name:     "conflict",
			err:      apperrors.NewConflictError("Round already open"),
			status:   http.StatusConflict,
			code:     dto.ErrorCodeConflict,
			message:  "Round already open",
			severity: dto.ErrorSeverityWarning,
		},
		{
			name:     "invalid ratio",
			err:      apperrors.NewCustomError(apperrors.ErrValidationFailed, "TA student ratio must be at least 1"),
			status:   http.StatusBadRequest,
			code:     dto.ErrorCodeValidationFailed,
			message:  "TA student ratio must be at least 1",
			severity: dto.ErrorSeverityWarning,
		},
		{
			name:     "unknown error",
			err:      errors.New("connection reset"),
			status:   http.StatusInternalServerError,
			code:     dto.ErrorCodeInternalServer,
			message:  "Internal server error",
			severity: dto.ErrorSeverityCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := serveError(t, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.Equal(t, tt.severity, body.Error.Severity)
		})
	}
}

// Each sentinel must be matched by its own row, not shadowed by an earlier one.
func TestHandleAPIError_EverySentinelHasItsOwnRow(t *testing.T) {
	for _, e := range apiErrors {
		w, body := serveError(t, e.target)
		assert.Equal(t, e.status, w.Code, e.target.Error())
		require.NotNil(t, body.Error)
		assert.Equal(t, e.code, body.Error.Code, e.target.Error())
		assert.Equal(t, e.message, body.Error.Message, e.target.Error())
	}
}

func TestHandleAPIErrorCarriesDetails(t *testing.T) {
	_, body := serveError(t, apperrors.NewCapacityExceededError(1))

	details, ok := body.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, details["limit"])
}

type bindTarget struct {
	StudentID string `json:"studentId" binding:"required,uuid"`
}

func TestBindJSON(t *testing.T) {
	router := gin.New()
	router.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if !BindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"studentId": req.StudentID})
	})

	t.Run("missing field", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind", jsonBody(`{}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
		assert.Equal(t, "studentId", body.Error.Field)
		assert.Equal(t, "studentId is required", body.Error.Message)
	})

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bind",
			jsonBody(`{"studentId":"5f0c2b9e-8d1a-4c43-9d55-0b8f1c2a7e11"}`)))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(RequestTimeout(50 * time.Millisecond))
	router.GET("/deadline", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/deadline", nil))
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
