package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/repositories"
	"github.com/yigit/taallocation/internal/app/services"
	"github.com/yigit/taallocation/internal/testutil/memstore"
)

// recordingNotifier keeps every notice it receives
type recordingNotifier struct {
	mu      sync.Mutex
	notices []services.AllocationNotice
}

func (n *recordingNotifier) Notify(_ context.Context, notice services.AllocationNotice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) all() []services.AllocationNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]services.AllocationNotice(nil), n.notices...)
}

type fixture struct {
	ctx      context.Context
	store    *memstore.Store
	notifier *recordingNotifier
	svc      services.AllocationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	notifier := &recordingNotifier{}
	return &fixture{
		ctx:      context.Background(),
		store:    store,
		notifier: notifier,
		svc:      services.NewAllocationService(store, notifier, zerolog.Nop()),
	}
}

func (f *fixture) seed(t *testing.T, fn repositories.TxFn) {
	t.Helper()
	require.NoError(t, f.store.WithinTx(f.ctx, fn))
}

func (f *fixture) openRound(t *testing.T, number int) {
	t.Helper()
	f.seed(t, func(ctx context.Context, tx repositories.Tx) error {
		if open, err := tx.LockCurrentRound(ctx); err == nil {
			if err := tx.CloseRound(ctx, open.ID, open.StartDate); err != nil {
				return err
			}
		}
		return tx.InsertRound(ctx, &models.Round{CurrentRound: number, Ongoing: true})
	})
}

func (f *fixture) addCourse(t *testing.T, totalStudents, ratio int) *models.Course {
	t.Helper()
	c := &models.Course{
		Name:           "Course " + uuid.NewString()[:8],
		Code:           "CSE" + uuid.NewString()[:3],
		Acronym:        "C",
		Credits:        4,
		TotalStudents:  totalStudents,
		TAStudentRatio: ratio,
	}
	f.seed(t, func(ctx context.Context, tx repositories.Tx) error {
		return tx.CreateCourse(ctx, c)
	})
	return c
}

func (f *fixture) addStudent(t *testing.T) *models.Student {
	t.Helper()
	suffix := uuid.NewString()[:8]
	s := &models.Student{
		Name:       "Student " + suffix,
		EmailID:    suffix + "@college.edu",
		RollNo:     "MT" + suffix,
		Program:    "M.Tech",
		Department: "CSE",
		Year:       1,
	}
	f.seed(t, func(ctx context.Context, tx repositories.Tx) error {
		return tx.CreateStudent(ctx, s)
	})
	return s
}

func (f *fixture) student(t *testing.T, id uuid.UUID) *models.Student {
	t.Helper()
	s, err := f.store.GetStudent(f.ctx, id)
	require.NoError(t, err)
	return s
}

func (f *fixture) course(t *testing.T, id uuid.UUID) *models.Course {
	t.Helper()
	c, err := f.store.GetCourse(f.ctx, id)
	require.NoError(t, err)
	return c
}

func (f *fixture) logs(t *testing.T) []*models.LogEntryDetail {
	t.Helper()
	logs, err := f.store.ListLogEntries(f.ctx)
	require.NoError(t, err)
	return logs
}

var admin = models.NewAllocator("admin", "")
