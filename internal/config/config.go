package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Notification providers
const (
	ProviderLog      = "log"
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string `yaml:"port" env:"SERVER_PORT,PORT"`
		Mode           string `yaml:"mode" env:"SERVER_MODE"`
		RequestTimeout string `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST,PGHOST"`
		Port            string `yaml:"port" env:"DB_PORT,PGPORT"`
		User            string `yaml:"user" env:"DB_USER,PGUSER"`
		Password        string `yaml:"password" env:"DB_PASSWORD,PGPASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME,PGDATABASE"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		TxTimeout       string `yaml:"tx_timeout" env:"DB_TX_TIMEOUT"`
		TxMaxRetries    int    `yaml:"tx_max_retries" env:"DB_TX_MAX_RETRIES"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Notifications struct {
		Provider     string `yaml:"provider" env:"NOTIFY_PROVIDER"`
		FromName     string `yaml:"from_name" env:"NOTIFY_FROM_NAME"`
		FromEmail    string `yaml:"from_email" env:"NOTIFY_FROM_EMAIL"`
		AdminEmail   string `yaml:"admin_email" env:"NOTIFY_ADMIN_EMAIL"`
		OnAllocate   bool   `yaml:"on_allocate" env:"NOTIFY_ON_ALLOCATE"`
		OnDeallocate bool   `yaml:"on_deallocate" env:"NOTIFY_ON_DEALLOCATE"`
		Timeout      string `yaml:"timeout" env:"NOTIFY_TIMEOUT"`

		SMTP struct {
			Host     string `yaml:"host" env:"SMTP_HOST"`
			Port     int    `yaml:"port" env:"SMTP_PORT"`
			Username string `yaml:"username" env:"SMTP_USERNAME"`
			Password string `yaml:"password" env:"SMTP_PASSWORD"`
			UseTLS   bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
		} `yaml:"smtp"`

		SendGrid struct {
			APIKey string `yaml:"api_key" env:"SENDGRID_API_KEY"`
		} `yaml:"sendgrid"`
	} `yaml:"notifications"`

	Observability struct {
		SentryDSN      string `yaml:"sentry_dsn" env:"SENTRY_DSN"`
		Environment    string `yaml:"environment" env:"APP_ENV"`
		Release        string `yaml:"release" env:"APP_RELEASE"`
		MetricsEnabled bool   `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
	} `yaml:"observability"`

	Seed struct {
		Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
	} `yaml:"seed"`

	// EnvOverrides lists the environment variables applied on top of the file
	EnvOverrides []string `yaml:"-"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory is applied to the environment first.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.RequestTimeout = "30s"

	// Database defaults
	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "taallocation"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.TxTimeout = "30s"
	config.Database.TxMaxRetries = 3

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Notification defaults
	config.Notifications.Provider = ProviderLog
	config.Notifications.FromName = "TA Allocation"
	config.Notifications.FromEmail = "noreply@taallocation.local"
	config.Notifications.OnAllocate = true
	config.Notifications.OnDeallocate = false
	config.Notifications.Timeout = "15s"
	config.Notifications.SMTP.Port = 587
	config.Notifications.SMTP.UseTLS = true

	config.Observability.Environment = "development"
	config.Observability.MetricsEnabled = true
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	applied, err := applyEnv(config)
	if err != nil {
		return err
	}
	config.EnvOverrides = applied
	return nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.MaxOpenConns <= 0 || config.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must be positive")
	}

	if config.Database.TxMaxRetries < 0 {
		return fmt.Errorf("database tx_max_retries must not be negative")
	}

	durations := map[string]string{
		"server request timeout":     config.Server.RequestTimeout,
		"database conn max lifetime": config.Database.ConnMaxLifetime,
		"database tx timeout":        config.Database.TxTimeout,
		"notification timeout":       config.Notifications.Timeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch config.Notifications.Provider {
	case ProviderLog:
	case ProviderSMTP:
		if config.Notifications.SMTP.Host == "" {
			return fmt.Errorf("smtp host is required for the smtp notification provider")
		}
	case ProviderSendGrid:
		if config.Notifications.SendGrid.APIKey == "" {
			return fmt.Errorf("sendgrid api key is required for the sendgrid notification provider")
		}
	default:
		return fmt.Errorf("unknown notification provider %q", config.Notifications.Provider)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// Duration parses a duration value that validateConfig has already checked
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
