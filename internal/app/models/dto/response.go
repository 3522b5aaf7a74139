package dto

import "time"

// APIResponse is the envelope for every JSON response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Student allocated successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Student allocated successfully"`
}

// NewSuccessResponse creates a message-only success response
func NewSuccessResponse(message string) SuccessResponse {
	return SuccessResponse{Success: true, Message: message}
}

// NewDataResponse wraps data in a success envelope
func NewDataResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes one page of a listing
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      interface{}    `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}
