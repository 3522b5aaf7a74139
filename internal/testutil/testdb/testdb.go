//go:build integration

// Package testdb starts a disposable PostgreSQL container with the
// application schema applied.
package testdb

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yigit/taallocation/internal/app/migrations"
	"github.com/yigit/taallocation/internal/db"
)

// Handle owns the container and the pool connected to it
type Handle struct {
	DB     *db.PostgresDB
	cancel func()
	stop   func(context.Context) error
}

// Close releases the pool and terminates the container
func (h *Handle) Close() {
	if h.DB != nil {
		h.DB.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// Start runs postgres, migrates it and returns a store-ready handle.
// maxRetries is passed through to the transaction retry policy.
func Start(ctx context.Context, maxRetries int) (*Handle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("taallocation"),
		postgres.WithUsername("taallocation"),
		postgres.WithPassword("taallocation"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	fail := func(err error) (*Handle, error) {
		_ = pg.Terminate(context.Background())
		cancel()
		return nil, err
	}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return fail(err)
	}

	poolConfig, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return fail(err)
	}
	poolConfig.MaxConns = 32

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fail(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fail(err)
	}

	if err := migrations.NewMigrator(pool).Up(ctx); err != nil {
		pool.Close()
		return fail(err)
	}

	return &Handle{
		DB:     db.NewFromPool(pool, 30*time.Second, maxRetries),
		cancel: cancel,
		stop:   pg.Terminate,
	}, nil
}
