package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appControllers "github.com/yigit/taallocation/internal/app/controllers"
	appMigrations "github.com/yigit/taallocation/internal/app/migrations"
	appRepos "github.com/yigit/taallocation/internal/app/repositories"
	appRoutes "github.com/yigit/taallocation/internal/app/routes"
	appServices "github.com/yigit/taallocation/internal/app/services"
	"github.com/yigit/taallocation/internal/config"
	"github.com/yigit/taallocation/internal/db"
	appMiddleware "github.com/yigit/taallocation/internal/middleware"
	"github.com/yigit/taallocation/internal/pkg/email"
	"github.com/yigit/taallocation/internal/pkg/logger"
	"github.com/yigit/taallocation/internal/pkg/observability"
	"github.com/yigit/taallocation/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             appRepos.Store
	AllocationService appServices.AllocationService
	RoundService      appServices.RoundService
	CourseService     appServices.CourseService
	StudentService    appServices.StudentService
	Notifier          *appServices.EmailNotifier
	Controllers       appRoutes.Controllers
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:   logLevel,
		Format:  cfg.Logging.Format,
		Service: "taallocation",
	})

	lgr := *logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).
		Strs("envOverrides", cfg.EnvOverrides).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupObservability initializes Sentry. The returned func flushes pending events.
func SetupObservability(cfg *config.Config, lgr zerolog.Logger) func() {
	flush, err := observability.InitSentry(cfg.Observability.SentryDSN, cfg.Observability.Environment, cfg.Observability.Release)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize Sentry, continuing without error reporting")
		return func() {}
	}
	if cfg.Observability.SentryDSN != "" {
		lgr.Info().Str("environment", cfg.Observability.Environment).Msg("Sentry error reporting enabled")
	}
	return flush
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.Up(context.Background()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes the store, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Store = appRepos.NewPostgresStore(database)

	// Create Default Data (after migrations)
	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(context.Background(), deps.Store, lgr); err != nil {
			// Log the error but don't necessarily fail the startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	n := cfg.Notifications
	sender, err := email.NewSender(email.Options{
		Provider:  n.Provider,
		FromName:  n.FromName,
		FromEmail: n.FromEmail,
		SMTP: email.SMTPConfig{
			Host:     n.SMTP.Host,
			Port:     n.SMTP.Port,
			Username: n.SMTP.Username,
			Password: n.SMTP.Password,
			UseTLS:   n.SMTP.UseTLS,
		},
		SendGridAPIKey: n.SendGrid.APIKey,
	}, logger.Component("email"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}

	deps.Notifier = appServices.NewEmailNotifier(sender, deps.Store, appServices.EmailNotifierConfig{
		AdminEmail:   n.AdminEmail,
		OnAllocate:   n.OnAllocate,
		OnDeallocate: n.OnDeallocate,
		Timeout:      config.Duration(n.Timeout, 15*time.Second),
	}, logger.Component("notifier"))

	// Initialize services
	deps.AllocationService = appServices.NewAllocationService(deps.Store, deps.Notifier, lgr)
	deps.RoundService = appServices.NewRoundService(deps.Store, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Store, lgr)
	deps.StudentService = appServices.NewStudentService(deps.Store)

	deps.Controllers = appRoutes.Controllers{
		Allocation: appControllers.NewAllocationController(deps.AllocationService),
		Round:      appControllers.NewRoundController(deps.RoundService),
		Course:     appControllers.NewCourseController(deps.CourseService),
		Student:    appControllers.NewStudentController(deps.StudentService),
		System:     appControllers.NewSystemController(deps.Store),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Metrics(),
		appMiddleware.RequestTimeout(config.Duration(cfg.Server.RequestTimeout, 30*time.Second)),
	)

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router, deps.Controllers, appRoutes.Options{
		MetricsEnabled: cfg.Observability.MetricsEnabled,
		SwaggerEnabled: strings.ToLower(cfg.Server.Mode) != "production",
	})

	return router
}
