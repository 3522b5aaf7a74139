package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/pkg/apperrors"
	"github.com/yigit/taallocation/internal/pkg/dberrors"
	"github.com/yigit/taallocation/internal/pkg/logger"
)

var courseColumns = []string{
	"id", "name", "code", "acronym", "credits", "department_id", "professor_id",
	"total_students", "ta_student_ratio", "ta_required", "created_at", "updated_at",
}

// CourseRepository handles course database operations, including the ordered
// TA membership kept in course_ta_allocations
type CourseRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Acronym, &c.Credits, &c.DepartmentID, &c.ProfessorID,
		&c.TotalStudents, &c.TAStudentRatio, &c.TARequired, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.TAAllocated = []uuid.UUID{}
	return &c, nil
}

func (r *CourseRepository) getOne(ctx context.Context, id uuid.UUID, suffix string) (*models.Course, error) {
	q := r.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id})
	if suffix != "" {
		q = q.Suffix(suffix)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", id.String()).Msg("Error executing get course query")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	if err := r.attachTAs(ctx, []*models.Course{course}); err != nil {
		return nil, err
	}
	return course, nil
}

// GetByID retrieves a course with its TA list
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return r.getOne(ctx, id, "")
}

// GetForUpdate retrieves a course and locks it until the transaction ends.
// Every change to a course's TA list happens under this lock.
func (r *CourseRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return r.getOne(ctx, id, "FOR UPDATE")
}

// List returns courses matching the filter ordered by acronym
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]*models.Course, error) {
	q := r.sb.Select(courseColumns...).From("courses").OrderBy("acronym", "name")
	if filter.ProfessorID != nil {
		q = q.Where(squirrel.Eq{"professor_id": *filter.ProfessorID})
	}
	if filter.DepartmentID != nil {
		q = q.Where(squirrel.Eq{"department_id": *filter.DepartmentID})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}
	rows.Close()

	if err := r.attachTAs(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetByIDs returns the courses with the given ids keyed by id
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Course, error) {
	out := make(map[uuid.UUID]*models.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	sql, args, err := r.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get courses query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get courses query")
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0, len(ids))
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}
	rows.Close()

	if err := r.attachTAs(ctx, courses); err != nil {
		return nil, err
	}
	return out, nil
}

// attachTAs fills TAAllocated in allocation order
func (r *CourseRepository) attachTAs(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Course, len(courses))
	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	sql, args, err := r.sb.Select("course_id", "student_id").
		From("course_ta_allocations").
		Where(squirrel.Eq{"course_id": ids}).
		OrderBy("course_id", "seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build course TA query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading course TAs")
		return fmt.Errorf("error loading course TAs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseID, studentID uuid.UUID
		if err := rows.Scan(&courseID, &studentID); err != nil {
			return fmt.Errorf("error scanning course TA: %w", err)
		}
		if c, ok := byID[courseID]; ok {
			c.TAAllocated = append(c.TAAllocated, studentID)
		}
	}
	return rows.Err()
}

// AddTA appends the student to the end of the course's TA list
func (r *CourseRepository) AddTA(ctx context.Context, courseID, studentID uuid.UUID) error {
	sql, args, err := r.sb.Insert("course_ta_allocations").
		Columns("course_id", "student_id").
		Values(courseID, studentID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add course TA query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "course_ta_allocations_student_key") {
			return apperrors.NewConflictError("Student is already a TA of a course")
		}
		logger.Error().Err(err).Str("courseID", courseID.String()).Str("studentID", studentID.String()).
			Msg("Error adding course TA")
		return fmt.Errorf("error adding course TA: %w", err)
	}
	return nil
}

// RemoveTA removes the student from the course's TA list if present
func (r *CourseRepository) RemoveTA(ctx context.Context, courseID, studentID uuid.UUID) error {
	sql, args, err := r.sb.Delete("course_ta_allocations").
		Where(squirrel.Eq{"course_id": courseID, "student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove course TA query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("courseID", courseID.String()).Msg("Error removing course TA")
		return fmt.Errorf("error removing course TA: %w", err)
	}
	return nil
}

// Create inserts a course; ta_required is computed by the database
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	sql, args, err := r.sb.Insert("courses").
		Columns("id", "name", "code", "acronym", "credits", "department_id", "professor_id",
			"total_students", "ta_student_ratio").
		Values(c.ID, c.Name, c.Code, c.Acronym, c.Credits, c.DepartmentID, c.ProfessorID,
			c.TotalStudents, c.TAStudentRatio).
		Suffix("RETURNING ta_required, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.TARequired, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_identity_key") {
			return apperrors.NewConflictError("Course with this acronym, professor and name already exists")
		}
		if dberrors.IsCheckViolation(err, "courses_ta_student_ratio_check") {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, "TA student ratio must be at least 1")
		}
		logger.Error().Err(err).Str("code", c.Code).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}
	c.TAAllocated = []uuid.UUID{}
	return nil
}

// Delete removes a course; membership rows cascade
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("courseID", id.String()).Msg("Error deleting course")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
