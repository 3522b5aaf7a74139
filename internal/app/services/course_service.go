package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/repositories"
	"github.com/yigit/taallocation/internal/pkg/apperrors"
)

// CourseView is a course with its capacity under the current round
type CourseView struct {
	Course *models.Course
	// Limit is nil when no round is open
	Limit *int
}

// CourseService defines the interface for course operations
type CourseService interface {
	ListCourses(ctx context.Context, filter repositories.CourseFilter) ([]CourseView, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*CourseView, error)
	// DeleteCourse removes a course and resets every student allocated to it
	DeleteCourse(ctx context.Context, id uuid.UUID) (int, error)
}

type courseServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(store repositories.Store, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		store:  store,
		logger: logger.With().Str("component", "courses").Logger(),
	}
}

// currentRoundNumber returns 0 when no round is open
func (s *courseServiceImpl) currentRoundNumber(ctx context.Context) (int, error) {
	round, err := s.store.CurrentRound(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return round.CurrentRound, nil
}

func view(course *models.Course, round int) CourseView {
	v := CourseView{Course: course}
	if round > 0 {
		limit := CapacityLimit(round, course)
		v.Limit = &limit
	}
	return v
}

func (s *courseServiceImpl) ListCourses(ctx context.Context, filter repositories.CourseFilter) ([]CourseView, error) {
	round, err := s.currentRoundNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading current round: %w", err)
	}
	courses, err := s.store.ListCourses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	views := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, view(c, round))
	}
	return views, nil
}

func (s *courseServiceImpl) GetCourse(ctx context.Context, id uuid.UUID) (*CourseView, error) {
	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	round, err := s.currentRoundNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading current round: %w", err)
	}
	v := view(course, round)
	return &v, nil
}

// DeleteCourse locks the allocated students, then the course, then picks up
// any student allocated between the two locks. Every such student is reset to
// unallocated before the course row goes away. No audit entry is written.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id uuid.UUID) (int, error) {
	var reset int
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		reset = 0

		if _, err := tx.LockStudentsByCourse(ctx, id); err != nil {
			return err
		}
		if _, err := tx.LockCourse(ctx, id); err != nil {
			return err
		}
		students, err := tx.LockStudentsByCourse(ctx, id)
		if err != nil {
			return err
		}

		for _, st := range students {
			if err := tx.RemoveCourseTA(ctx, id, st.ID); err != nil {
				return err
			}
			if err := tx.SetStudentAllocation(ctx, st.ID, models.StatusUnallocated, nil); err != nil {
				return err
			}
			reset++
		}
		return tx.DeleteCourse(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Error().Err(err).Str("courseID", id.String()).Msg("Failed to delete course")
		}
		return 0, err
	}

	s.logger.Info().Str("courseID", id.String()).Int("studentsReset", reset).Msg("Course deleted")
	return reset, nil
}
