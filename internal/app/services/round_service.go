package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/taallocation/internal/app/models"
	"github.com/yigit/taallocation/internal/app/repositories"
	"github.com/yigit/taallocation/internal/pkg/apperrors"
)

// RoundService defines the interface for allocation round operations
type RoundService interface {
	// CurrentRound returns the open round. It is read from the store on every
	// call and never cached.
	CurrentRound(ctx context.Context) (*models.Round, error)
	ListRounds(ctx context.Context) ([]*models.Round, error)
	// StartNextRound closes the open round, if any, and opens the next one
	StartNextRound(ctx context.Context) (*models.Round, error)
	// EndCurrentRound closes the open round
	EndCurrentRound(ctx context.Context) (*models.Round, error)
}

type roundServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewRoundService creates a new RoundService
func NewRoundService(store repositories.Store, logger zerolog.Logger) RoundService {
	return &roundServiceImpl{
		store:  store,
		logger: logger.With().Str("component", "rounds").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *roundServiceImpl) CurrentRound(ctx context.Context) (*models.Round, error) {
	round, err := s.store.CurrentRound(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("No ongoing round")
		}
		return nil, fmt.Errorf("error reading current round: %w", err)
	}
	return round, nil
}

func (s *roundServiceImpl) ListRounds(ctx context.Context) ([]*models.Round, error) {
	rounds, err := s.store.ListRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing rounds: %w", err)
	}
	return rounds, nil
}

func (s *roundServiceImpl) StartNextRound(ctx context.Context) (*models.Round, error) {
	var next models.Round
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		now := s.now()

		open, err := tx.LockCurrentRound(ctx)
		switch {
		case err == nil:
			if err := tx.CloseRound(ctx, open.ID, now); err != nil {
				return err
			}
		case errors.Is(err, apperrors.ErrResourceNotFound):
		default:
			return err
		}

		last, err := tx.MaxRoundNumber(ctx)
		if err != nil {
			return err
		}

		next = models.Round{CurrentRound: last + 1, Ongoing: true, StartDate: now}
		return tx.InsertRound(ctx, &next)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.logger.Error().Err(err).Msg("Failed to start next round")
		}
		return nil, err
	}

	s.logger.Info().Int("round", next.CurrentRound).Msg("Allocation round started")
	return &next, nil
}

func (s *roundServiceImpl) EndCurrentRound(ctx context.Context) (*models.Round, error) {
	var closed models.Round
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Tx) error {
		open, err := tx.LockCurrentRound(ctx)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return apperrors.NewNoActiveRoundError()
			}
			return err
		}
		end := s.now()
		if err := tx.CloseRound(ctx, open.ID, end); err != nil {
			return err
		}
		closed = *open
		closed.Ongoing = false
		closed.EndDate = &end
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNoActiveRound) {
			s.logger.Error().Err(err).Msg("Failed to end round")
		}
		return nil, err
	}

	s.logger.Info().Int("round", closed.CurrentRound).Msg("Allocation round ended")
	return &closed, nil
}
