//go:build integration

package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/repositories"
	"github.com/yigit/taallocation/internal/app/services"
	"github.com/yigit/taallocation/internal/pkg/apperrors"
	"github.com/yigit/taallocation/internal/seed"
	"github.com/yigit/taallocation/internal/testutil/testdb"
	"golang.org/x/sync/errgroup"
)

var store *repositories.PostgresStore

func TestMain(m *testing.M) {
	h, err := testdb.Start(context.Background(), 5)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start test database: %v\n", err)
		os.Exit(1)
	}
	store = repositories.NewPostgresStore(h.DB)

	// seed opens round 1, which every test below allocates in
	if err := seed.CreateDefaultData(context.Background(), store, zerolog.Nop()); err != nil {
		h.Close()
		fmt.Fprintf(os.Stderr, "seed test database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	h.Close()
	os.Exit(code)
}

func createCourse(t *testing.T, total, ratio int) *models.Course {
	t.Helper()
	suffix := uuid.NewString()[:8]
	c := &models.Course{
		Name:           "Course " + suffix,
		Code:           "T" + suffix,
		Acronym:        "T",
		Credits:        4,
		TotalStudents:  total,
		TAStudentRatio: ratio,
	}
	require.NoError(t, store.WithinTx(context.Background(), func(ctx context.Context, tx repositories.Tx) error {
		return tx.CreateCourse(ctx, c)
	}))
	return c
}

func createStudents(t *testing.T, n int) []*models.Student {
	t.Helper()
	students := make([]*models.Student, 0, n)
	require.NoError(t, store.WithinTx(context.Background(), func(ctx context.Context, tx repositories.Tx) error {
		for i := 0; i < n; i++ {
			suffix := uuid.NewString()[:12]
			s := &models.Student{
				Name:       "Student " + suffix,
				EmailID:    suffix + "@college.edu",
				RollNo:     "R" + suffix,
				Program:    "M.Tech",
				Department: "CSE",
				Year:       1,
			}
			if err := tx.CreateStudent(ctx, s); err != nil {
				return err
			}
			students = append(students, s)
		}
		return nil
	}))
	return students
}

func newAllocationService() services.AllocationService {
	return services.NewAllocationService(store, services.NoopNotifier{}, zerolog.Nop())
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()

	before, err := store.ListCourses(ctx, repositories.CourseFilter{})
	require.NoError(t, err)
	require.NoError(t, seed.CreateDefaultData(ctx, store, zerolog.Nop()))
	after, err := store.ListCourses(ctx, repositories.CourseFilter{})
	require.NoError(t, err)
	assert.Len(t, after, len(before))

	round, err := store.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, round.CurrentRound)
	assert.True(t, round.IsOpen())
}

func TestCreateCourseComputesTARequired(t *testing.T) {
	c := createCourse(t, 95, 40)
	assert.Equal(t, 2, c.TARequired)

	got, err := store.GetCourse(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TARequired)
	assert.Empty(t, got.TAAllocated)
}

func TestConcurrentAllocationRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	course := createCourse(t, 150, 30) // round 1 limit is 2
	students := createStudents(t, 12)
	svc := newAllocationService()
	by := models.NewAllocator("admin", "")

	var ok, full atomic.Int32
	var g errgroup.Group
	for _, s := range students {
		g.Go(func() error {
			err := svc.Allocate(ctx, s.ID, course.ID, by)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, apperrors.ErrCapacityExceeded):
				full.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 2, ok.Load())
	assert.EqualValues(t, 10, full.Load())

	got, err := store.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.TAAllocated, 2)
	for _, id := range got.TAAllocated {
		st, err := store.GetStudent(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAllocated, st.AllocationStatus)
		require.NotNil(t, st.AllocatedTA)
		assert.Equal(t, course.ID, *st.AllocatedTA)
	}
}

func TestConcurrentAllocationOfOneStudent(t *testing.T) {
	ctx := context.Background()
	student := createStudents(t, 1)[0]
	svc := newAllocationService()
	by := models.NewAllocator("admin", "")

	var ok atomic.Int32
	var g errgroup.Group
	for i := 0; i < 6; i++ {
		course := createCourse(t, 50, 25)
		g.Go(func() error {
			err := svc.Allocate(ctx, student.ID, course.ID, by)
			if err == nil {
				ok.Add(1)
				return nil
			}
			if errors.Is(err, apperrors.ErrStudentNotEligible) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, ok.Load())

	logs, err := store.ListLogEntries(ctx)
	require.NoError(t, err)
	var mine int
	for _, l := range logs {
		if l.LogEntry.StudentID == student.ID {
			mine++
			require.NotNil(t, l.Student)
			require.NotNil(t, l.Course)
			assert.Equal(t, models.ActionAllocated, l.LogEntry.Action)
		}
	}
	assert.Equal(t, 1, mine)
}

func TestDeleteCourseResetsStudents(t *testing.T) {
	ctx := context.Background()
	course := createCourse(t, 200, 20)
	students := createStudents(t, 2)
	svc := newAllocationService()
	by := models.NewAllocator("admin", "")

	for _, s := range students {
		require.NoError(t, svc.Allocate(ctx, s.ID, course.ID, by))
	}
	require.NoError(t, svc.Freeze(ctx, students[0].ID))

	reset, err := services.NewCourseService(store, zerolog.Nop()).DeleteCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reset)

	for _, s := range students {
		got, err := store.GetStudent(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnallocated, got.AllocationStatus)
		assert.Nil(t, got.AllocatedTA)
	}

	_, err = store.GetCourse(ctx, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestFailedUnitOfWorkRollsBack(t *testing.T) {
	ctx := context.Background()
	existing := createStudents(t, 1)[0]
	fresh := uuid.New()

	err := store.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		if err := tx.CreateStudent(ctx, &models.Student{
			ID: fresh, Name: "Fresh", EmailID: fresh.String() + "@college.edu", RollNo: fresh.String(),
			Program: "PhD", Department: "CSE", Year: 1,
		}); err != nil {
			return err
		}
		return tx.CreateStudent(ctx, &models.Student{
			Name: "Duplicate", EmailID: existing.EmailID, RollNo: "dup-" + fresh.String(),
			Program: "PhD", Department: "CSE", Year: 1,
		})
	})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = store.GetStudent(ctx, fresh)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestSecondOpenRoundIsRejected(t *testing.T) {
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx repositories.Tx) error {
		return tx.InsertRound(ctx, &models.Round{CurrentRound: 99, Ongoing: true})
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestFindStudentByKey(t *testing.T) {
	ctx := context.Background()
	s := createStudents(t, 1)[0]

	for _, key := range []string{s.ID.String(), s.EmailID, s.RollNo} {
		got, err := store.FindStudent(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, s.ID, got.ID)
	}

	_, err := store.FindStudent(ctx, "nobody@college.edu")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
