package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/taallocation/internal/app/models"
)

// StudentFilter narrows student listings
type StudentFilter struct {
	Status *models.AllocationStatus
	Search string // matches name, email or roll number
	Limit  int
	Offset int
}

// CourseFilter narrows course listings
type CourseFilter struct {
	ProfessorID  *uuid.UUID
	DepartmentID *uuid.UUID
}

// Reader is the read side of the entity store. Reads are point-in-time and
// take no locks.
type Reader interface {
	Ping(ctx context.Context) error

	CurrentRound(ctx context.Context) (*models.Round, error)
	ListRounds(ctx context.Context) ([]*models.Round, error)

	GetStudent(ctx context.Context, id uuid.UUID) (*models.Student, error)
	// FindStudent resolves a student by id, email or roll number
	FindStudent(ctx context.Context, key string) (*models.Student, error)
	ListStudents(ctx context.Context, filter StudentFilter) ([]*models.Student, int, error)

	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListCourses(ctx context.Context, filter CourseFilter) ([]*models.Course, error)

	ListLogEntries(ctx context.Context) ([]*models.LogEntryDetail, error)

	GetProfessor(ctx context.Context, id uuid.UUID) (*models.Professor, error)
	GetCoordinator(ctx context.Context, id uuid.UUID) (*models.Coordinator, error)
}

// Tx is one atomic unit of work. Lock methods hold their rows until the
// unit of work ends; callers lock students before courses.
type Tx interface {
	// CurrentRound reads the open round and keeps it from being closed until commit
	CurrentRound(ctx context.Context) (*models.Round, error)
	// LockCurrentRound reads the open round for update
	LockCurrentRound(ctx context.Context) (*models.Round, error)
	MaxRoundNumber(ctx context.Context) (int, error)
	InsertRound(ctx context.Context, round *models.Round) error
	CloseRound(ctx context.Context, id uuid.UUID, endDate time.Time) error

	LockStudent(ctx context.Context, id uuid.UUID) (*models.Student, error)
	LockStudentsByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Student, error)
	SetStudentAllocation(ctx context.Context, id uuid.UUID, status models.AllocationStatus, courseID *uuid.UUID) error
	CreateStudent(ctx context.Context, student *models.Student) error

	LockCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	AddCourseTA(ctx context.Context, courseID, studentID uuid.UUID) error
	RemoveCourseTA(ctx context.Context, courseID, studentID uuid.UUID) error
	CreateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error

	ProfessorEmail(ctx context.Context, id uuid.UUID) (string, error)
	CoordinatorEmail(ctx context.Context, id uuid.UUID) (string, error)
	CreateProfessor(ctx context.Context, professor *models.Professor) error
	CreateCoordinator(ctx context.Context, coordinator *models.Coordinator) error

	InsertLogEntry(ctx context.Context, entry *models.LogEntry) error
}

// TxFn runs inside a unit of work. Returning an error discards every write.
type TxFn func(ctx context.Context, tx Tx) error

// Store is the entity store used by the services
type Store interface {
	Reader
	WithinTx(ctx context.Context, fn TxFn) error
}
