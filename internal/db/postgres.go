package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/taallocation/internal/config"
	"github.com/yigit/taallocation/internal/pkg/dberrors"
	"github.com/yigit/taallocation/internal/pkg/logger"
	"github.com/yigit/taallocation/internal/pkg/metrics"
)

// PostgresDB database connection structure
type PostgresDB struct {
	Pool       *pgxpool.Pool
	txTimeout  time.Duration
	maxRetries int
}

// NewPostgresDB creates a new PostgreSQL connection pool
func NewPostgresDB(cfg *config.Config) (*PostgresDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = config.Duration(cfg.Database.ConnMaxLifetime, time.Hour)

	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return NewFromPool(pool, config.Duration(cfg.Database.TxTimeout, 30*time.Second), cfg.Database.TxMaxRetries), nil
}

// NewFromPool wraps an existing pool
func NewFromPool(pool *pgxpool.Pool, txTimeout time.Duration, maxRetries int) *PostgresDB {
	if txTimeout <= 0 {
		txTimeout = 30 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &PostgresDB{Pool: pool, txTimeout: txTimeout, maxRetries: maxRetries}
}

// Close closing method
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks that the database answers
func (db *PostgresDB) Ping(ctx context.Context) error {
	err := db.Pool.Ping(ctx)
	metrics.SetDBUp(err == nil)
	return err
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction runs fn in a READ COMMITTED transaction. The whole attempt is
// retried with exponential backoff when Postgres aborts it with a serialization
// failure or a deadlock; any other error rolls back and is returned as is.
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.txTimeout)
		defer cancel()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 20 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(db.maxRetries)), ctx)

	attempt := 0
	op := func() error {
		attempt++
		err := db.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if dberrors.IsRetryable(err) {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("Retrying aborted transaction")
			return err
		}
		return backoff.Permanent(err)
	}

	return backoff.Retry(op, b)
}

func (db *PostgresDB) runOnce(ctx context.Context, fn TransactionFn) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveTransaction(time.Since(start), err == nil)
	}()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback on panic
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("%w (rollback error: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
