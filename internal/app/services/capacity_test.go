package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/services"
)

func TestCapacityLimit(t *testing.T) {
	tests := []struct {
		name          string
		round         int
		totalStudents int
		taRequired    int
		want          int
	}{
		{name: "round 1 small course", round: 1, totalStudents: 50, taRequired: 5, want: 1},
		{name: "round 1 just below threshold", round: 1, totalStudents: 99, taRequired: 3, want: 1},
		{name: "round 1 at threshold", round: 1, totalStudents: 100, taRequired: 1, want: 2},
		{name: "round 1 large course", round: 1, totalStudents: 400, taRequired: 10, want: 2},
		{name: "round 2 uses taRequired", round: 2, totalStudents: 50, taRequired: 3, want: 3},
		{name: "round 3 ignores size", round: 3, totalStudents: 500, taRequired: 3, want: 3},
		{name: "round 2 no TAs required", round: 2, totalStudents: 5, taRequired: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Course{TotalStudents: tt.totalStudents, TARequired: tt.taRequired}
			assert.Equal(t, tt.want, services.CapacityLimit(tt.round, c))
		})
	}
}

func TestHasCapacity(t *testing.T) {
	c := &models.Course{TotalStudents: 50, TARequired: 2}
	assert.True(t, services.HasCapacity(1, c))

	c.TAAllocated = []uuid.UUID{uuid.New()}
	assert.False(t, services.HasCapacity(1, c))
	assert.True(t, services.HasCapacity(2, c))

	c.TAAllocated = append(c.TAAllocated, uuid.New())
	assert.False(t, services.HasCapacity(2, c))
}
