package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/pkg/apperrors"
	"github.com/yigit/taallocation/internal/pkg/dberrors"
	"github.com/yigit/taallocation/internal/pkg/logger"
)

// RoundRepository handles allocation round records
type RoundRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewRoundRepository creates a new RoundRepository
func NewRoundRepository(db DBTX) *RoundRepository {
	return &RoundRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanRound(row pgx.Row) (*models.Round, error) {
	var round models.Round
	if err := row.Scan(&round.ID, &round.CurrentRound, &round.Ongoing, &round.StartDate, &round.EndDate); err != nil {
		return nil, err
	}
	return &round, nil
}

// Current returns the open round (ongoing with no end date).
// lock is appended as a row-lock clause, e.g. "FOR SHARE".
func (r *RoundRepository) Current(ctx context.Context, lock string) (*models.Round, error) {
	q := r.sb.Select("id", "current_round", "ongoing", "start_date", "end_date").
		From("rounds").
		Where(squirrel.Eq{"ongoing": true, "end_date": nil}).
		Limit(1)
	if lock != "" {
		q = q.Suffix(lock)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building current round SQL")
		return nil, fmt.Errorf("failed to build current round query: %w", err)
	}

	round, err := scanRound(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoundNotFound
		}
		logger.Error().Err(err).Msg("Error executing current round query")
		return nil, fmt.Errorf("error retrieving current round: %w", err)
	}
	return round, nil
}

// List returns all rounds, newest first
func (r *RoundRepository) List(ctx context.Context) ([]*models.Round, error) {
	sql, args, err := r.sb.Select("id", "current_round", "ongoing", "start_date", "end_date").
		From("rounds").
		OrderBy("current_round DESC", "start_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list rounds query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list rounds query")
		return nil, fmt.Errorf("error listing rounds: %w", err)
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning round: %w", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// MaxNumber returns the highest round ordinal, or 0 when no round exists
func (r *RoundRepository) MaxNumber(ctx context.Context) (int, error) {
	sql, args, err := r.sb.Select("COALESCE(MAX(current_round), 0)").From("rounds").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build max round query: %w", err)
	}
	var n int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error reading max round number")
		return 0, fmt.Errorf("error reading max round number: %w", err)
	}
	return n, nil
}

// Insert creates a round record
func (r *RoundRepository) Insert(ctx context.Context, round *models.Round) error {
	if round.ID == uuid.Nil {
		round.ID = uuid.New()
	}
	if round.StartDate.IsZero() {
		round.StartDate = time.Now().UTC()
	}
	sql, args, err := r.sb.Insert("rounds").
		Columns("id", "current_round", "ongoing", "start_date", "end_date").
		Values(round.ID, round.CurrentRound, round.Ongoing, round.StartDate, round.EndDate).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert round query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "rounds_single_open_idx") {
			return apperrors.NewConflictError("Another round is already ongoing")
		}
		logger.Error().Err(err).Int("round", round.CurrentRound).Msg("Error inserting round")
		return fmt.Errorf("error inserting round: %w", err)
	}
	return nil
}

// Close ends a round
func (r *RoundRepository) Close(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	sql, args, err := r.sb.Update("rounds").
		Set("ongoing", false).
		Set("end_date", endDate).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build close round query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("roundID", id.String()).Msg("Error closing round")
		return fmt.Errorf("error closing round: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRoundNotFound
	}
	return nil
}
