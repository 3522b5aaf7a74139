package migrations

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/yigit/taallocation/internal/pkg/logger"
)

//go:embed sql/*.sql
var FS embed.FS

const dir = "sql"

// Migrator manages database migrations
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// Up applies every pending embedded migration
func (m *Migrator) Up(ctx context.Context) error {
	sqlDB := stdlib.OpenDBFromPool(m.db)
	defer sqlDB.Close()

	goose.SetBaseFS(FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info().Int64("version", version).Msg("Database schema is up to date")
	return nil
}

// gooseLogger routes goose output through zerolog
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logger.Info().Str("component", "migrations").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logger.Fatal().Str("component", "migrations").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
