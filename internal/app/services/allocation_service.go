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
	"github.com/yigit/taallocation/internal/pkg/metrics"
)

// Operation names used in logs and metrics
const (
	OpAllocate   = "allocate"
	OpDeallocate = "deallocate"
	OpFreeze     = "freeze"
)

// AllocationService defines the interface for allocation state transitions
type AllocationService interface {
	// Allocate assigns an unallocated student to a course in the active round
	Allocate(ctx context.Context, studentID, courseID uuid.UUID, by models.Allocator) error
	// Deallocate releases an allocated or frozen student from their course.
	// courseID is recorded in the audit entry; the course actually released is
	// the one the student is allocated to. A nil courseID records that course.
	Deallocate(ctx context.Context, studentID uuid.UUID, courseID *uuid.UUID, by models.Allocator) error
	// Freeze locks an allocated student's allocation
	Freeze(ctx context.Context, studentID uuid.UUID) error
	// ListLogs returns the audit log joined with students and courses
	ListLogs(ctx context.Context) ([]*models.LogEntryDetail, error)
}

// allocationServiceImpl implements AllocationService
type allocationServiceImpl struct {
	store    repositories.Store
	notifier Notifier
	logger   zerolog.Logger
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(store repositories.Store, notifier Notifier, logger zerolog.Logger) AllocationService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &allocationServiceImpl{
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("component", "allocation").Logger(),
	}
}

// Allocate checks, in order: an open round exists, the student and course
// exist, the course has room under the round's limit, and the student is
// unallocated. Student and course rows stay locked until commit so concurrent
// calls for the same course or student are serialized.
func (s *allocationServiceImpl) Allocate(ctx context.Context, studentID, courseID uuid.UUID, by models.Allocator) error {
	var (
		student    models.Student
		course     models.Course
		actorEmail *string
	)

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		round, err := tx.CurrentRound(ctx)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return apperrors.NewNoActiveRoundError()
			}
			return err
		}

		st, err := tx.LockStudent(ctx, studentID)
		if err != nil {
			return studentOrCourseNotFound(err)
		}
		c, err := tx.LockCourse(ctx, courseID)
		if err != nil {
			return studentOrCourseNotFound(err)
		}

		if !HasCapacity(round.CurrentRound, c) {
			return apperrors.NewCapacityExceededError(CapacityLimit(round.CurrentRound, c))
		}
		if !st.IsUnallocated() {
			return apperrors.NewCustomError(apperrors.ErrStudentNotEligible, "Student is not available for allocation")
		}

		actorEmail, err = s.resolveEmail(ctx, tx, by)
		if err != nil {
			return err
		}

		if err := tx.SetStudentAllocation(ctx, st.ID, models.StatusAllocated, &c.ID); err != nil {
			return err
		}
		if err := tx.AddCourseTA(ctx, c.ID, st.ID); err != nil {
			return err
		}
		if err := tx.InsertLogEntry(ctx, &models.LogEntry{
			StudentID:   st.ID,
			CourseID:    &c.ID,
			UserEmailID: actorEmail,
			UserRole:    by.Role,
			Action:      models.ActionAllocated,
		}); err != nil {
			return err
		}

		st.AllocationStatus = models.StatusAllocated
		st.AllocatedTA = &c.ID
		c.TAAllocated = append(c.TAAllocated, st.ID)
		student, course = *st, *c
		return nil
	})
	if err != nil {
		return s.fail(OpAllocate, studentID, err)
	}

	metrics.RecordTransition(OpAllocate, "success")
	s.logger.Info().
		Str("studentID", student.ID.String()).
		Str("courseID", course.ID.String()).
		Str("role", by.Role).
		Stringer("allocator", by.Kind).
		Int("taCount", len(course.TAAllocated)).
		Msg("Student allocated")

	s.notifier.Notify(ctx, AllocationNotice{
		Action:     models.ActionAllocated,
		Student:    student,
		Course:     &course,
		Allocator:  by,
		ActorEmail: actorEmail,
	})
	return nil
}

// Deallocate works on frozen students as well as allocated ones. A course
// reference that no longer resolves is skipped and the student is still reset.
func (s *allocationServiceImpl) Deallocate(ctx context.Context, studentID uuid.UUID, courseID *uuid.UUID, by models.Allocator) error {
	var (
		student    models.Student
		course     *models.Course
		actorEmail *string
	)

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		st, err := tx.LockStudent(ctx, studentID)
		if err != nil {
			return err
		}
		if st.AllocationStatus == models.StatusUnallocated {
			return apperrors.NewCustomError(apperrors.ErrNotAllocated, "Student is not allocated")
		}

		course = nil
		if st.AllocatedTA != nil {
			c, err := tx.LockCourse(ctx, *st.AllocatedTA)
			switch {
			case err == nil:
				course = c
			case errors.Is(err, apperrors.ErrResourceNotFound):
				s.logger.Warn().
					Str("studentID", st.ID.String()).
					Str("courseID", st.AllocatedTA.String()).
					Msg("Allocated course no longer exists, resetting student only")
			default:
				return err
			}
		}

		if course != nil {
			if err := tx.RemoveCourseTA(ctx, course.ID, st.ID); err != nil {
				return err
			}
		}
		if err := tx.SetStudentAllocation(ctx, st.ID, models.StatusUnallocated, nil); err != nil {
			return err
		}

		actorEmail, err = s.resolveEmail(ctx, tx, by)
		if err != nil {
			return err
		}

		logCourse := courseID
		if logCourse == nil {
			logCourse = st.AllocatedTA
		}
		if err := tx.InsertLogEntry(ctx, &models.LogEntry{
			StudentID:   st.ID,
			CourseID:    logCourse,
			UserEmailID: actorEmail,
			UserRole:    by.Role,
			Action:      models.ActionDeallocated,
		}); err != nil {
			return err
		}

		if course != nil {
			course.TAAllocated = removeID(course.TAAllocated, st.ID)
		}
		st.AllocationStatus = models.StatusUnallocated
		st.AllocatedTA = nil
		student = *st
		return nil
	})
	if err != nil {
		return s.fail(OpDeallocate, studentID, err)
	}

	metrics.RecordTransition(OpDeallocate, "success")
	ev := s.logger.Info().Str("studentID", student.ID.String()).Str("role", by.Role).Stringer("allocator", by.Kind)
	if course != nil {
		ev = ev.Str("courseID", course.ID.String())
	}
	ev.Msg("Student deallocated")

	s.notifier.Notify(ctx, AllocationNotice{
		Action:     models.ActionDeallocated,
		Student:    student,
		Course:     course,
		Allocator:  by,
		ActorEmail: actorEmail,
	})
	return nil
}

// Freeze moves an allocated student to frozen. No audit entry is written.
func (s *allocationServiceImpl) Freeze(ctx context.Context, studentID uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		st, err := tx.LockStudent(ctx, studentID)
		if err != nil {
			return err
		}
		if !st.CanFreeze() {
			return apperrors.NewCustomError(apperrors.ErrCannotFreeze, "Cannot freeze allocation")
		}
		return tx.SetStudentAllocation(ctx, st.ID, models.StatusFrozen, st.AllocatedTA)
	})
	if err != nil {
		return s.fail(OpFreeze, studentID, err)
	}

	metrics.RecordTransition(OpFreeze, "success")
	s.logger.Info().Str("studentID", studentID.String()).Msg("Student allocation frozen")
	return nil
}

// ListLogs returns every audit entry with its student and course
func (s *allocationServiceImpl) ListLogs(ctx context.Context) ([]*models.LogEntryDetail, error) {
	logs, err := s.store.ListLogEntries(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list allocation logs")
		return nil, fmt.Errorf("error listing allocation logs: %w", err)
	}
	return logs, nil
}

// resolveEmail maps the allocator to the userEmailId stored on the audit
// entry. A missing JM or professor record leaves it nil.
func (s *allocationServiceImpl) resolveEmail(ctx context.Context, tx repositories.Tx, by models.Allocator) (*string, error) {
	if by.Kind == models.AllocatorAdmin {
		admin := models.AdminEmailID
		return &admin, nil
	}
	if !by.NeedsLookup() {
		s.logger.Warn().Str("role", by.Role).Stringer("allocator", by.Kind).Msg("Allocator id missing or malformed, email left unresolved")
		return nil, nil
	}

	var (
		addr string
		err  error
	)
	if by.Kind == models.AllocatorCoordinator {
		addr, err = tx.CoordinatorEmail(ctx, by.ID)
	} else {
		addr, err = tx.ProfessorEmail(ctx, by.ID)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Warn().Str("role", by.Role).Stringer("allocator", by.Kind).Str("allocatorID", by.ID.String()).
				Msg("Allocator record not found, email left unresolved")
			return nil, nil
		}
		return nil, err
	}
	return &addr, nil
}

// fail records the outcome of a rejected or aborted transition and returns
// the error for the caller. Anything that is not a domain error is logged as
// an internal failure.
func (s *allocationServiceImpl) fail(op string, studentID uuid.UUID, err error) error {
	outcome := outcomeOf(err)
	metrics.RecordTransition(op, outcome)
	if outcome == "error" {
		s.logger.Error().Err(err).Str("operation", op).Str("studentID", studentID.String()).
			Msg("Allocation transaction aborted")
		return fmt.Errorf("%s student %s: %w", op, studentID, err)
	}
	s.logger.Debug().Err(err).Str("operation", op).Str("studentID", studentID.String()).
		Str("outcome", outcome).Msg("Allocation rejected")
	return err
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNoActiveRound):
		return "no_active_round"
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, apperrors.ErrStudentNotEligible):
		return "not_eligible"
	case errors.Is(err, apperrors.ErrNotAllocated):
		return "not_allocated"
	case errors.Is(err, apperrors.ErrCannotFreeze):
		return "cannot_freeze"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func studentOrCourseNotFound(err error) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return apperrors.NewResourceNotFoundError("Student or Course not found")
	}
	return err
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
