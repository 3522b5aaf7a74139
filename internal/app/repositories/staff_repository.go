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

// StaffRepository reads and writes professors and coordinators. Both tables
// share the same shape, so the table is chosen per call.
type StaffRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db DBTX) *StaffRepository {
	return &StaffRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StaffRepository) email(ctx context.Context, table string, id uuid.UUID, notFound error) (string, error) {
	sql, args, err := r.sb.Select("email_id").From(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build %s email query: %w", table, err)
	}
	var email string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", notFound
		}
		logger.Error().Err(err).Str("table", table).Str("id", id.String()).Msg("Error reading email")
		return "", fmt.Errorf("error reading %s email: %w", table, err)
	}
	return email, nil
}

// ProfessorEmail returns the email of a professor
func (r *StaffRepository) ProfessorEmail(ctx context.Context, id uuid.UUID) (string, error) {
	return r.email(ctx, "professors", id, apperrors.ErrProfessorNotFound)
}

// CoordinatorEmail returns the email of a department coordinator
func (r *StaffRepository) CoordinatorEmail(ctx context.Context, id uuid.UUID) (string, error) {
	return r.email(ctx, "coordinators", id, apperrors.ErrCoordinatorNotFound)
}

func (r *StaffRepository) get(ctx context.Context, table string, id uuid.UUID, dest []interface{}, notFound error) error {
	sql, args, err := r.sb.Select("id", "name", "email_id", "created_at", "updated_at").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build get %s query: %w", table, err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound
		}
		logger.Error().Err(err).Str("table", table).Str("id", id.String()).Msg("Error reading staff record")
		return fmt.Errorf("error reading %s: %w", table, err)
	}
	return nil
}

// GetProfessor retrieves a professor by id
func (r *StaffRepository) GetProfessor(ctx context.Context, id uuid.UUID) (*models.Professor, error) {
	var p models.Professor
	if err := r.get(ctx, "professors", id,
		[]interface{}{&p.ID, &p.Name, &p.EmailID, &p.CreatedAt, &p.UpdatedAt}, apperrors.ErrProfessorNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCoordinator retrieves a department coordinator by id
func (r *StaffRepository) GetCoordinator(ctx context.Context, id uuid.UUID) (*models.Coordinator, error) {
	var c models.Coordinator
	if err := r.get(ctx, "coordinators", id,
		[]interface{}{&c.ID, &c.Name, &c.EmailID, &c.CreatedAt, &c.UpdatedAt}, apperrors.ErrCoordinatorNotFound); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *StaffRepository) insert(ctx context.Context, table string, id uuid.UUID, name, email string) error {
	sql, args, err := r.sb.Insert(table).
		Columns("id", "name", "email_id").
		Values(id, name, email).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert %s query: %w", table, err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.NewConflictError("Email already exists")
		}
		logger.Error().Err(err).Str("table", table).Msg("Error inserting staff record")
		return fmt.Errorf("error inserting into %s: %w", table, err)
	}
	return nil
}

// CreateProfessor inserts a professor
func (r *StaffRepository) CreateProfessor(ctx context.Context, p *models.Professor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.insert(ctx, "professors", p.ID, p.Name, p.EmailID)
}

// CreateCoordinator inserts a department coordinator
func (r *StaffRepository) CreateCoordinator(ctx context.Context, c *models.Coordinator) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.insert(ctx, "coordinators", c.ID, c.Name, c.EmailID)
}
