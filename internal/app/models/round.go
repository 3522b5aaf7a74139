package models

import (
	"time"

	"github.com/google/uuid"
)

// Round is a department-wide allocation cycle.
// At most one round is open (ongoing with no end date) at a time.
type Round struct {
	ID           uuid.UUID  `json:"id"`
	CurrentRound int        `json:"currentRound" example:"1"`
	Ongoing      bool       `json:"ongoing" example:"true"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// IsOpen reports whether the round is the active allocation round
func (r *Round) IsOpen() bool {
	return r.Ongoing && r.EndDate == nil
}
