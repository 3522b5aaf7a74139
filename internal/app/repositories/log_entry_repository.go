package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/pkg/logger"
)

// LogEntryRepository appends and lists audit log entries. Entries are never
// updated or deleted.
type LogEntryRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewLogEntryRepository creates a new LogEntryRepository
func NewLogEntryRepository(db DBTX) *LogEntryRepository {
	return &LogEntryRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert appends an entry
func (r *LogEntryRepository) Insert(ctx context.Context, e *models.LogEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	sql, args, err := r.sb.Insert("log_entries").
		Columns("id", "student_id", "course_id", "user_email_id", "user_role", "action", "created_at").
		Values(e.ID, e.StudentID, e.CourseID, e.UserEmailID, e.UserRole, string(e.Action), e.CreatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert log entry SQL")
		return fmt.Errorf("failed to build insert log entry query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("studentID", e.StudentID.String()).Msg("Error inserting log entry")
		return fmt.Errorf("error inserting log entry: %w", err)
	}
	return nil
}

// List returns all entries oldest first
func (r *LogEntryRepository) List(ctx context.Context) ([]*models.LogEntry, error) {
	sql, args, err := r.sb.Select("id", "student_id", "course_id", "user_email_id", "user_role", "action", "created_at").
		From("log_entries").
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list log entries query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list log entries query")
		return nil, fmt.Errorf("error listing log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.LogEntry, 0)
	for rows.Next() {
		var e models.LogEntry
		var action string
		if err := rows.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.UserEmailID, &e.UserRole, &action, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning log entry: %w", err)
		}
		e.Action = models.LogAction(action)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
