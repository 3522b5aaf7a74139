package models

import (
	"time"

	"github.com/google/uuid"
)

// Professor teaches courses and may allocate TAs to them
type Professor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	EmailID   string    `json:"emailId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Coordinator is a department coordinator (JM)
type Coordinator struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	EmailID   string    `json:"emailId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
