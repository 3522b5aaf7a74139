package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/pkg/apperrors"
	"github.com/yigit/taallocation/internal/pkg/dberrors"
	"github.com/yigit/taallocation/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "name", "email_id", "roll_no", "program", "department", "year", "mandatory_ta",
	"allocation_status", "allocated_ta", "created_at", "updated_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	var status int16
	err := row.Scan(&s.ID, &s.Name, &s.EmailID, &s.RollNo, &s.Program, &s.Department, &s.Year, &s.MandatoryTA,
		&status, &s.AllocatedTA, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.AllocationStatus = models.AllocationStatus(status)
	return &s, nil
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer, suffix string) (*models.Student, error) {
	q := r.sb.Select(studentColumns...).From("students").Where(where).Limit(1)
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error executing get student query")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetByID retrieves a student by id
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "")
}

// GetForUpdate retrieves a student and locks the row until the transaction ends
func (r *StudentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "FOR UPDATE")
}

// FindByKey looks a student up by id, email or roll number
func (r *StudentRepository) FindByKey(ctx context.Context, key string) (*models.Student, error) {
	key = strings.TrimSpace(key)
	if id, err := uuid.Parse(key); err == nil {
		return r.GetByID(ctx, id)
	}
	return r.getOne(ctx, squirrel.Or{squirrel.Eq{"email_id": key}, squirrel.Eq{"roll_no": key}}, "")
}

// LockByCourse locks every student currently allocated to the course
func (r *StudentRepository) LockByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"allocated_ta": courseID}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building lock students by course SQL")
		return nil, fmt.Errorf("failed to build lock students query: %w", err)
	}
	return r.query(ctx, sql, args...)
}

// List returns students matching the filter and the total number of matches
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]*models.Student, int, error) {
	where := squirrel.And{}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"allocation_status": int16(*filter.Status)})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + s + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email_id": pattern},
			squirrel.ILike{"roll_no": pattern},
		})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("students").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count students SQL")
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	q := r.sb.Select(studentColumns...).From("students").Where(where).OrderBy("roll_no")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}
	students, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// GetByIDs returns the students with the given ids keyed by id
func (r *StudentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Student, error) {
	out := make(map[uuid.UUID]*models.Student, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	sql, args, err := r.sb.Select(studentColumns...).From("students").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get students query: %w", err)
	}
	students, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	for _, s := range students {
		out[s.ID] = s
	}
	return out, nil
}

func (r *StudentRepository) query(ctx context.Context, sql string, args ...interface{}) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing student query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}

// SetAllocation writes allocation_status and allocated_ta together
func (r *StudentRepository) SetAllocation(ctx context.Context, id uuid.UUID, status models.AllocationStatus, courseID *uuid.UUID) error {
	sql, args, err := r.sb.Update("students").
		Set("allocation_status", int16(status)).
		Set("allocated_ta", courseID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student allocation SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", id.String()).Msg("Error updating student allocation")
		return fmt.Errorf("error updating student allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	sql, args, err := r.sb.Insert("students").
		Columns("id", "name", "email_id", "roll_no", "program", "department", "year", "mandatory_ta",
			"allocation_status", "allocated_ta").
		Values(s.ID, s.Name, s.EmailID, s.RollNo, s.Program, s.Department, s.Year, s.MandatoryTA,
			int16(s.AllocationStatus), s.AllocatedTA).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_email_id_key") ||
			dberrors.IsDuplicateConstraintError(err, "students_roll_no_key") {
			logger.Warn().Str("rollNo", s.RollNo).Msg("Attempted to create student with duplicate email or roll number")
			return apperrors.NewConflictError("Student with this email or roll number already exists")
		}
		logger.Error().Err(err).Str("rollNo", s.RollNo).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}
