package models

import (
	"time"

	"github.com/google/uuid"
)

// LogEntry is an append-only audit record of one allocate or deallocate.
type LogEntry struct {
	ID          uuid.UUID  `json:"id"`
	StudentID   uuid.UUID  `json:"student"`
	CourseID    *uuid.UUID `json:"course"`
	UserEmailID *string    `json:"userEmailId"` // nil when the allocator could not be resolved
	UserRole    string     `json:"userRole"`
	Action      LogAction  `json:"action"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LogEntryDetail joins a log entry with the student and course it refers to.
// Either side is nil when the record no longer exists.
type LogEntryDetail struct {
	LogEntry LogEntry `json:"logEntry"`
	Student  *Student `json:"student"`
	Course   *Course  `json:"course"`
}
