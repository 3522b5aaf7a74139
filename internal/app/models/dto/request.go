package dto

// AllocateRequest is the body of POST /allocation/allocate
type AllocateRequest struct {
	StudentID     string `json:"studentId" binding:"required,uuid" example:"6f1c2d9e-3a57-4a8e-9c1f-0b2a6f8d4e11"`
	CourseID      string `json:"courseId" binding:"required,uuid" example:"0b8e3c52-7c0a-4f0e-a7d9-5b1d1f6e2a90"`
	AllocatedBy   string `json:"allocatedBy" binding:"required,max=64" example:"professor"`
	AllocatedByID string `json:"allocatedByID" example:"9d5e1c1b-2f3a-4b7e-8c6d-1a2b3c4d5e6f"`
}

// DeallocateRequest is the body of POST /allocation/deallocate.
// CourseID is optional and only used for the audit entry.
type DeallocateRequest struct {
	StudentID       string `json:"studentId" binding:"required,uuid" example:"6f1c2d9e-3a57-4a8e-9c1f-0b2a6f8d4e11"`
	CourseID        string `json:"courseId" binding:"omitempty,uuid" example:"0b8e3c52-7c0a-4f0e-a7d9-5b1d1f6e2a90"`
	DeallocatedBy   string `json:"deallocatedBy" binding:"required,max=64" example:"jm"`
	DeallocatedByID string `json:"deallocatedByID" example:"9d5e1c1b-2f3a-4b7e-8c6d-1a2b3c4d5e6f"`
}

// FreezeRequest is the body of POST /allocation/freeze
type FreezeRequest struct {
	StudentID string `json:"studentId" binding:"required,uuid" example:"6f1c2d9e-3a57-4a8e-9c1f-0b2a6f8d4e11"`
}

// StudentListRequest holds the query parameters of GET /students
type StudentListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=0 1 2 unallocated allocated frozen"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

// CourseListRequest holds the query parameters of GET /courses
type CourseListRequest struct {
	ProfessorID  string `form:"professorId" binding:"omitempty,uuid"`
	DepartmentID string `form:"departmentId" binding:"omitempty,uuid"`
}
