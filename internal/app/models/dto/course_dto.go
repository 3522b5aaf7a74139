package dto

import (
	"github.com/yigit/taallocation/internal/app/models"
)

// CourseResponse is a course with its TA capacity under the active round
type CourseResponse struct {
	*models.Course
	TACount int `json:"taCount" example:"1"`
	// CapacityLimit is absent when no round is ongoing
	CapacityLimit *int `json:"capacityLimit,omitempty" example:"2"`
}

// NewCourseResponse builds the response for a course and its current limit
func NewCourseResponse(course *models.Course, limit *int) CourseResponse {
	return CourseResponse{Course: course, TACount: len(course.TAAllocated), CapacityLimit: limit}
}

// DeleteCourseResponse reports the cleanup done by a course deletion
type DeleteCourseResponse struct {
	StudentsReset int `json:"studentsReset" example:"2"`
}
