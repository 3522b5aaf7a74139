package services

import (
	"context"
	"fmt"

	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/repositories"
)

// StudentService defines the interface for student reads
type StudentService interface {
	ListStudents(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, int, error)
	// GetStudent resolves a student by id, email or roll number
	GetStudent(ctx context.Context, key string) (*models.Student, error)
}

type studentServiceImpl struct {
	store repositories.Reader
}

// NewStudentService creates a new StudentService
func NewStudentService(store repositories.Reader) StudentService {
	return &studentServiceImpl{store: store}
}

func (s *studentServiceImpl) ListStudents(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, int, error) {
	students, total, err := s.store.ListStudents(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	return students, total, nil
}

func (s *studentServiceImpl) GetStudent(ctx context.Context, key string) (*models.Student, error) {
	return s.store.FindStudent(ctx, key)
}
