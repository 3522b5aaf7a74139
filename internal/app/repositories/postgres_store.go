package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/db"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so the same repository
// code runs inside and outside a transaction
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Repositories holds all the repository instances bound to one connection
type Repositories struct {
	Students   *StudentRepository
	Courses    *CourseRepository
	Rounds     *RoundRepository
	Staff      *StaffRepository
	LogEntries *LogEntryRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn DBTX) *Repositories {
	return &Repositories{
		Students:   NewStudentRepository(conn),
		Courses:    NewCourseRepository(conn),
		Rounds:     NewRoundRepository(conn),
		Staff:      NewStaffRepository(conn),
		LogEntries: NewLogEntryRepository(conn),
	}
}

// PostgresStore implements Store on PostgreSQL
type PostgresStore struct {
	db    *db.PostgresDB
	repos *Repositories
}

// NewPostgresStore creates a store over the connection pool
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return &PostgresStore{db: database, repos: NewRepositories(database.Pool)}
}

// WithinTx runs fn in a transaction with repositories bound to it
func (s *PostgresStore) WithinTx(ctx context.Context, fn TxFn) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &pgTx{repos: NewRepositories(tx)})
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) CurrentRound(ctx context.Context) (*models.Round, error) {
	return s.repos.Rounds.Current(ctx, "")
}

func (s *PostgresStore) ListRounds(ctx context.Context) ([]*models.Round, error) {
	return s.repos.Rounds.List(ctx)
}

func (s *PostgresStore) GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return s.repos.Students.GetByID(ctx, id)
}

func (s *PostgresStore) FindStudent(ctx context.Context, key string) (*models.Student, error) {
	return s.repos.Students.FindByKey(ctx, key)
}

func (s *PostgresStore) ListStudents(ctx context.Context, filter StudentFilter) ([]*models.Student, int, error) {
	return s.repos.Students.List(ctx, filter)
}

func (s *PostgresStore) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.repos.Courses.GetByID(ctx, id)
}

func (s *PostgresStore) ListCourses(ctx context.Context, filter CourseFilter) ([]*models.Course, error) {
	return s.repos.Courses.List(ctx, filter)
}

func (s *PostgresStore) GetProfessor(ctx context.Context, id uuid.UUID) (*models.Professor, error) {
	return s.repos.Staff.GetProfessor(ctx, id)
}

func (s *PostgresStore) GetCoordinator(ctx context.Context, id uuid.UUID) (*models.Coordinator, error) {
	return s.repos.Staff.GetCoordinator(ctx, id)
}

// ListLogEntries joins every entry with its student and course. A side whose
// record no longer exists is left nil.
func (s *PostgresStore) ListLogEntries(ctx context.Context) ([]*models.LogEntryDetail, error) {
	entries, err := s.repos.LogEntries.List(ctx)
	if err != nil {
		return nil, err
	}

	studentIDs := make([]uuid.UUID, 0, len(entries))
	courseIDs := make([]uuid.UUID, 0, len(entries))
	seenStudent := make(map[uuid.UUID]bool)
	seenCourse := make(map[uuid.UUID]bool)
	for _, e := range entries {
		if !seenStudent[e.StudentID] {
			seenStudent[e.StudentID] = true
			studentIDs = append(studentIDs, e.StudentID)
		}
		if e.CourseID != nil && !seenCourse[*e.CourseID] {
			seenCourse[*e.CourseID] = true
			courseIDs = append(courseIDs, *e.CourseID)
		}
	}

	students, err := s.repos.Students.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	courses, err := s.repos.Courses.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	details := make([]*models.LogEntryDetail, 0, len(entries))
	for _, e := range entries {
		d := &models.LogEntryDetail{LogEntry: *e, Student: students[e.StudentID]}
		if e.CourseID != nil {
			d.Course = courses[*e.CourseID]
		}
		details = append(details, d)
	}
	return details, nil
}

// pgTx implements Tx with repositories bound to a pgx.Tx
type pgTx struct {
	repos *Repositories
}

func (t *pgTx) CurrentRound(ctx context.Context) (*models.Round, error) {
	return t.repos.Rounds.Current(ctx, "FOR SHARE")
}

func (t *pgTx) LockCurrentRound(ctx context.Context) (*models.Round, error) {
	return t.repos.Rounds.Current(ctx, "FOR UPDATE")
}

func (t *pgTx) MaxRoundNumber(ctx context.Context) (int, error) {
	return t.repos.Rounds.MaxNumber(ctx)
}

func (t *pgTx) InsertRound(ctx context.Context, round *models.Round) error {
	return t.repos.Rounds.Insert(ctx, round)
}

func (t *pgTx) CloseRound(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	return t.repos.Rounds.Close(ctx, id, endDate)
}

func (t *pgTx) LockStudent(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return t.repos.Students.GetForUpdate(ctx, id)
}

func (t *pgTx) LockStudentsByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Student, error) {
	return t.repos.Students.LockByCourse(ctx, courseID)
}

func (t *pgTx) SetStudentAllocation(ctx context.Context, id uuid.UUID, status models.AllocationStatus, courseID *uuid.UUID) error {
	return t.repos.Students.SetAllocation(ctx, id, status, courseID)
}

func (t *pgTx) CreateStudent(ctx context.Context, student *models.Student) error {
	return t.repos.Students.Create(ctx, student)
}

func (t *pgTx) LockCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return t.repos.Courses.GetForUpdate(ctx, id)
}

func (t *pgTx) AddCourseTA(ctx context.Context, courseID, studentID uuid.UUID) error {
	return t.repos.Courses.AddTA(ctx, courseID, studentID)
}

func (t *pgTx) RemoveCourseTA(ctx context.Context, courseID, studentID uuid.UUID) error {
	return t.repos.Courses.RemoveTA(ctx, courseID, studentID)
}

func (t *pgTx) CreateCourse(ctx context.Context, course *models.Course) error {
	return t.repos.Courses.Create(ctx, course)
}

func (t *pgTx) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return t.repos.Courses.Delete(ctx, id)
}

func (t *pgTx) ProfessorEmail(ctx context.Context, id uuid.UUID) (string, error) {
	return t.repos.Staff.ProfessorEmail(ctx, id)
}

func (t *pgTx) CoordinatorEmail(ctx context.Context, id uuid.UUID) (string, error) {
	return t.repos.Staff.CoordinatorEmail(ctx, id)
}

func (t *pgTx) CreateProfessor(ctx context.Context, professor *models.Professor) error {
	return t.repos.Staff.CreateProfessor(ctx, professor)
}

func (t *pgTx) CreateCoordinator(ctx context.Context, coordinator *models.Coordinator) error {
	return t.repos.Staff.CreateCoordinator(ctx, coordinator)
}

func (t *pgTx) InsertLogEntry(ctx context.Context, entry *models.LogEntry) error {
	return t.repos.LogEntries.Insert(ctx, entry)
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Tx    = (*pgTx)(nil)
)
