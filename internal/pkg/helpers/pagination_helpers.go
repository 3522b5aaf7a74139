package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/taallocation/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // pages are 1-based
)

// CalculateOffsetLimit turns a 1-based page and a page size into SQL offset and limit.
// Out-of-range sizes fall back to DefaultPageSize.
func CalculateOffsetLimit(page, size int) (offset, limit int) {
	limit = size
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	if page < DefaultPage {
		page = DefaultPage
	}
	return (page - 1) * limit, limit
}

// NewPaginationInfo describes one page of total matches. An empty result still
// reports a single page, and a page past the end is clamped to the last one.
func NewPaginationInfo(total, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < DefaultPage {
		page = DefaultPage
	}

	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  int64(total),
	}
}

// ParsePaginationParams reads the page and size query parameters, falling back
// to the defaults when they are missing or out of range
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < DefaultPage {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}
