package models

import (
	"time"

	"github.com/google/uuid"
)

// Student is a candidate teaching assistant
type Student struct {
	ID               uuid.UUID        `json:"id" example:"6f1c2d9e-3a57-4a8e-9c1f-0b2a6f8d4e11"`
	Name             string           `json:"name" example:"Asha Verma"`
	EmailID          string           `json:"emailId" example:"asha21@college.edu"`
	RollNo           string           `json:"rollNo" example:"MT21045"`
	Program          string           `json:"program" example:"M.Tech"`
	Department       string           `json:"department" example:"CSE"`
	Year             int              `json:"year" example:"2"`
	MandatoryTA      bool             `json:"mandatoryTa"`
	AllocationStatus AllocationStatus `json:"allocationStatus" example:"0"`
	AllocatedTA      *uuid.UUID       `json:"allocatedTA"` // course the student assists, nil when unallocated
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// IsUnallocated reports whether the student may receive a new allocation.
// Both the status and the course reference must agree.
func (s *Student) IsUnallocated() bool {
	return s.AllocationStatus == StatusUnallocated && s.AllocatedTA == nil
}

// CanFreeze reports whether the current allocation may be frozen
func (s *Student) CanFreeze() bool {
	return s.AllocationStatus == StatusAllocated && s.AllocatedTA != nil
}
