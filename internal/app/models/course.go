package models

import (
	"time"

	"github.com/google/uuid"
)

// Course represents a course that needs teaching assistants.
type Course struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name" example:"Introduction to Programming"`
	Code           string      `json:"code" example:"CSE101"`
	Acronym        string      `json:"acronym" example:"IP"`
	Credits        int         `json:"credits" example:"4"`
	DepartmentID   *uuid.UUID  `json:"department,omitempty"` // coordinator (JM) owning the course
	ProfessorID    *uuid.UUID  `json:"professor,omitempty"`
	TotalStudents  int         `json:"totalStudents" example:"120"`
	TAStudentRatio int         `json:"taStudentRatio" example:"40"`
	TARequired     int         `json:"taRequired" example:"3"`
	TAAllocated    []uuid.UUID `json:"taAllocated"` // allocation order
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// TARequiredFor derives the number of TAs a course needs from its headcount.
func TARequiredFor(totalStudents, taStudentRatio int) int {
	if taStudentRatio < 1 || totalStudents < 0 {
		return 0
	}
	return totalStudents / taStudentRatio
}

// HasTA reports whether the student is currently allocated to the course
func (c *Course) HasTA(studentID uuid.UUID) bool {
	for _, id := range c.TAAllocated {
		if id == studentID {
			return true
		}
	}
	return false
}
