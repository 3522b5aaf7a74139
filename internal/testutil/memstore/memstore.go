// Package memstore is an in-memory repositories.Store for tests. Units of work
// run one at a time against a copy of the data, which replaces the live data
// only when the unit of work returns nil.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/repositories"
	"github.com/yigit/taallocation/internal/pkg/apperrors"
)

type state struct {
	students     map[uuid.UUID]models.Student
	courses      map[uuid.UUID]models.Course
	rounds       []models.Round
	professors   map[uuid.UUID]models.Professor
	coordinators map[uuid.UUID]models.Coordinator
	logs         []models.LogEntry
}

func newState() *state {
	return &state{
		students:     make(map[uuid.UUID]models.Student),
		courses:      make(map[uuid.UUID]models.Course),
		professors:   make(map[uuid.UUID]models.Professor),
		coordinators: make(map[uuid.UUID]models.Coordinator),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.students {
		c.students[k] = cloneStudent(v)
	}
	for k, v := range s.courses {
		c.courses[k] = cloneCourse(v)
	}
	for k, v := range s.professors {
		c.professors[k] = v
	}
	for k, v := range s.coordinators {
		c.coordinators[k] = v
	}
	c.rounds = append([]models.Round(nil), s.rounds...)
	c.logs = append([]models.LogEntry(nil), s.logs...)
	return c
}

func cloneStudent(s models.Student) models.Student {
	if s.AllocatedTA != nil {
		id := *s.AllocatedTA
		s.AllocatedTA = &id
	}
	return s
}

func cloneCourse(c models.Course) models.Course {
	c.TAAllocated = append([]uuid.UUID{}, c.TAAllocated...)
	return c
}

// Store is a transactional in-memory store
type Store struct {
	mu       sync.Mutex
	data     *state
	failures map[string]error
	commits  int
}

// New returns an empty store
func New() *Store {
	return &Store{data: newState(), failures: make(map[string]error)}
}

// FailOn makes the named Tx method return err until cleared with a nil err.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

// Commits returns how many units of work have committed
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// WithinTx runs fn against a private copy and publishes it on success
func (s *Store) WithinTx(ctx context.Context, fn repositories.TxFn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.data.clone()
	if err := fn(ctx, &tx{s: work, failures: s.failures}); err != nil {
		return err
	}
	s.data = work
	s.commits++
	return nil
}

func (s *Store) read() *state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) CurrentRound(ctx context.Context) (*models.Round, error) {
	return currentRound(s.read())
}

func (s *Store) ListRounds(ctx context.Context) ([]*models.Round, error) {
	data := s.read()
	out := make([]*models.Round, 0, len(data.rounds))
	for i := range data.rounds {
		r := data.rounds[i]
		out = append(out, &r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CurrentRound > out[j].CurrentRound })
	return out, nil
}

func (s *Store) GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	st, ok := s.read().students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &st, nil
}

func (s *Store) FindStudent(ctx context.Context, key string) (*models.Student, error) {
	key = strings.TrimSpace(key)
	if id, err := uuid.Parse(key); err == nil {
		return s.GetStudent(ctx, id)
	}
	for _, st := range s.read().students {
		if st.EmailID == key || st.RollNo == key {
			st := st
			return &st, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (s *Store) ListStudents(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, int, error) {
	data := s.read()
	matched := make([]*models.Student, 0, len(data.students))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, st := range data.students {
		if filter.Status != nil && st.AllocationStatus != *filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(st.Name+" "+st.EmailID+" "+st.RollNo), search) {
			continue
		}
		st := st
		matched = append(matched, &st)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].RollNo < matched[j].RollNo })

	total := len(matched)
	if filter.Limit > 0 {
		start := filter.Offset
		if start > total {
			start = total
		}
		end := start + filter.Limit
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (s *Store) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	c, ok := s.read().courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &c, nil
}

func (s *Store) ListCourses(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, error) {
	data := s.read()
	out := make([]*models.Course, 0, len(data.courses))
	for _, c := range data.courses {
		if filter.ProfessorID != nil && (c.ProfessorID == nil || *c.ProfessorID != *filter.ProfessorID) {
			continue
		}
		if filter.DepartmentID != nil && (c.DepartmentID == nil || *c.DepartmentID != *filter.DepartmentID) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Acronym+out[i].Name < out[j].Acronym+out[j].Name })
	return out, nil
}

func (s *Store) ListLogEntries(ctx context.Context) ([]*models.LogEntryDetail, error) {
	data := s.read()
	out := make([]*models.LogEntryDetail, 0, len(data.logs))
	for _, e := range data.logs {
		d := &models.LogEntryDetail{LogEntry: e}
		if st, ok := data.students[e.StudentID]; ok {
			d.Student = &st
		}
		if e.CourseID != nil {
			if c, ok := data.courses[*e.CourseID]; ok {
				d.Course = &c
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) GetProfessor(ctx context.Context, id uuid.UUID) (*models.Professor, error) {
	p, ok := s.read().professors[id]
	if !ok {
		return nil, apperrors.ErrProfessorNotFound
	}
	return &p, nil
}

func (s *Store) GetCoordinator(ctx context.Context, id uuid.UUID) (*models.Coordinator, error) {
	c, ok := s.read().coordinators[id]
	if !ok {
		return nil, apperrors.ErrCoordinatorNotFound
	}
	return &c, nil
}

func currentRound(data *state) (*models.Round, error) {
	for i := range data.rounds {
		if data.rounds[i].IsOpen() {
			r := data.rounds[i]
			return &r, nil
		}
	}
	return nil, apperrors.ErrRoundNotFound
}

// tx mutates the working copy owned by one WithinTx call
type tx struct {
	s        *state
	failures map[string]error
}

func (t *tx) fail(method string) error {
	return t.failures[method]
}

func (t *tx) CurrentRound(ctx context.Context) (*models.Round, error) {
	if err := t.fail("CurrentRound"); err != nil {
		return nil, err
	}
	return currentRound(t.s)
}

func (t *tx) LockCurrentRound(ctx context.Context) (*models.Round, error) {
	if err := t.fail("LockCurrentRound"); err != nil {
		return nil, err
	}
	return currentRound(t.s)
}

func (t *tx) MaxRoundNumber(ctx context.Context) (int, error) {
	n := 0
	for _, r := range t.s.rounds {
		if r.CurrentRound > n {
			n = r.CurrentRound
		}
	}
	return n, nil
}

func (t *tx) InsertRound(ctx context.Context, round *models.Round) error {
	if err := t.fail("InsertRound"); err != nil {
		return err
	}
	if round.CurrentRound < 1 {
		return errors.New("memstore: round number must be positive")
	}
	if round.IsOpen() {
		if _, err := currentRound(t.s); err == nil {
			return apperrors.NewConflictError("Another round is already ongoing")
		}
	}
	if round.ID == uuid.Nil {
		round.ID = uuid.New()
	}
	if round.StartDate.IsZero() {
		round.StartDate = time.Now().UTC()
	}
	t.s.rounds = append(t.s.rounds, *round)
	return nil
}

func (t *tx) CloseRound(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	if err := t.fail("CloseRound"); err != nil {
		return err
	}
	for i := range t.s.rounds {
		if t.s.rounds[i].ID == id {
			t.s.rounds[i].Ongoing = false
			end := endDate
			t.s.rounds[i].EndDate = &end
			return nil
		}
	}
	return apperrors.ErrRoundNotFound
}

func (t *tx) LockStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	if err := t.fail("LockStudent"); err != nil {
		return nil, err
	}
	st, ok := t.s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	st = cloneStudent(st)
	return &st, nil
}

func (t *tx) LockStudentsByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Student, error) {
	if err := t.fail("LockStudentsByCourse"); err != nil {
		return nil, err
	}
	out := make([]*models.Student, 0)
	for _, st := range t.s.students {
		if st.AllocatedTA != nil && *st.AllocatedTA == courseID {
			st := cloneStudent(st)
			out = append(out, &st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (t *tx) SetStudentAllocation(ctx context.Context, id uuid.UUID, status models.AllocationStatus, courseID *uuid.UUID) error {
	if err := t.fail("SetStudentAllocation"); err != nil {
		return err
	}
	st, ok := t.s.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if (status == models.StatusUnallocated) != (courseID == nil) {
		return errors.New("memstore: allocation status and course reference disagree")
	}
	if courseID != nil {
		if _, ok := t.s.courses[*courseID]; !ok {
			return errors.New("memstore: allocated course does not exist")
		}
		c := *courseID
		courseID = &c
	}
	st.AllocationStatus = status
	st.AllocatedTA = courseID
	st.UpdatedAt = time.Now().UTC()
	t.s.students[id] = st
	return nil
}

func (t *tx) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := t.fail("CreateStudent"); err != nil {
		return err
	}
	for _, st := range t.s.students {
		if st.EmailID == student.EmailID || st.RollNo == student.RollNo {
			return apperrors.NewConflictError("Student with this email or roll number already exists")
		}
	}
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	now := time.Now().UTC()
	student.CreatedAt, student.UpdatedAt = now, now
	t.s.students[student.ID] = cloneStudent(*student)
	return nil
}

func (t *tx) LockCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	if err := t.fail("LockCourse"); err != nil {
		return nil, err
	}
	c, ok := t.s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	c = cloneCourse(c)
	return &c, nil
}

func (t *tx) AddCourseTA(ctx context.Context, courseID, studentID uuid.UUID) error {
	if err := t.fail("AddCourseTA"); err != nil {
		return err
	}
	c, ok := t.s.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, other := range t.s.courses {
		if other.HasTA(studentID) {
			return apperrors.NewConflictError("Student is already a TA of a course")
		}
	}
	c.TAAllocated = append(c.TAAllocated, studentID)
	t.s.courses[courseID] = c
	return nil
}

func (t *tx) RemoveCourseTA(ctx context.Context, courseID, studentID uuid.UUID) error {
	if err := t.fail("RemoveCourseTA"); err != nil {
		return err
	}
	c, ok := t.s.courses[courseID]
	if !ok {
		return nil
	}
	kept := make([]uuid.UUID, 0, len(c.TAAllocated))
	for _, id := range c.TAAllocated {
		if id != studentID {
			kept = append(kept, id)
		}
	}
	c.TAAllocated = kept
	t.s.courses[courseID] = c
	return nil
}

func (t *tx) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := t.fail("CreateCourse"); err != nil {
		return err
	}
	if course.TAStudentRatio < 1 {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "TA student ratio must be at least 1")
	}
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	course.TARequired = models.TARequiredFor(course.TotalStudents, course.TAStudentRatio)
	if course.TAAllocated == nil {
		course.TAAllocated = []uuid.UUID{}
	}
	now := time.Now().UTC()
	course.CreatedAt, course.UpdatedAt = now, now
	t.s.courses[course.ID] = cloneCourse(*course)
	return nil
}

func (t *tx) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := t.fail("DeleteCourse"); err != nil {
		return err
	}
	if _, ok := t.s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, st := range t.s.students {
		if st.AllocatedTA != nil && *st.AllocatedTA == id {
			return errors.New("memstore: course is still referenced by a student")
		}
	}
	delete(t.s.courses, id)
	return nil
}

func (t *tx) ProfessorEmail(ctx context.Context, id uuid.UUID) (string, error) {
	if err := t.fail("ProfessorEmail"); err != nil {
		return "", err
	}
	p, ok := t.s.professors[id]
	if !ok {
		return "", apperrors.ErrProfessorNotFound
	}
	return p.EmailID, nil
}

func (t *tx) CoordinatorEmail(ctx context.Context, id uuid.UUID) (string, error) {
	if err := t.fail("CoordinatorEmail"); err != nil {
		return "", err
	}
	c, ok := t.s.coordinators[id]
	if !ok {
		return "", apperrors.ErrCoordinatorNotFound
	}
	return c.EmailID, nil
}

func (t *tx) CreateProfessor(ctx context.Context, professor *models.Professor) error {
	if professor.ID == uuid.Nil {
		professor.ID = uuid.New()
	}
	t.s.professors[professor.ID] = *professor
	return nil
}

func (t *tx) CreateCoordinator(ctx context.Context, coordinator *models.Coordinator) error {
	if coordinator.ID == uuid.Nil {
		coordinator.ID = uuid.New()
	}
	t.s.coordinators[coordinator.ID] = *coordinator
	return nil
}

func (t *tx) InsertLogEntry(ctx context.Context, entry *models.LogEntry) error {
	if err := t.fail("InsertLogEntry"); err != nil {
		return err
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	t.s.logs = append(t.s.logs, *entry)
	return nil
}

var (
	_ repositories.Store = (*Store)(nil)
	_ repositories.Tx    = (*tx)(nil)
)
