package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is the process-wide logger behind the package helpers
	defaultLogger zerolog.Logger
)

// LogLevel represents the log level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	// FatalLevel logs and then exits the process
	FatalLevel LogLevel = "fatal"
)

// Output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config represents logger configuration
type Config struct {
	Level LogLevel
	// Format is "json" (default) or "text" for the human-readable console writer
	Format string
	// Service is attached to every line when set
	Service string
	// Output is the output writer (defaults to os.Stdout)
	Output io.Writer
}

// Configure replaces the default logger and sets the global level
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.SetGlobalLevel(toZerolog(config.Level))

	writer := config.Output
	if strings.EqualFold(config.Format, FormatText) {
		writer = zerolog.ConsoleWriter{Out: config.Output, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(writer).With().Timestamp()
	if config.Service != "" {
		ctx = ctx.Str("service", config.Service)
	}
	defaultLogger = ctx.Logger()
	log.Logger = defaultLogger
}

func toZerolog(level LogLevel) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel maps a configured level name onto LogLevel, defaulting to info
func ParseLevel(level string) LogLevel {
	switch l := LogLevel(strings.ToLower(strings.TrimSpace(level))); l {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel:
		return l
	}
	return InfoLevel
}

func Debug() *zerolog.Event { return defaultLogger.Debug() }

func Info() *zerolog.Event { return defaultLogger.Info() }

func Warn() *zerolog.Event { return defaultLogger.Warn() }

func Error() *zerolog.Event { return defaultLogger.Error() }

// Fatal logs and exits with status 1 once the event is sent
func Fatal() *zerolog.Event { return defaultLogger.Fatal() }

// Component returns a child logger tagged with the component name
func Component(name string) zerolog.Logger {
	return defaultLogger.With().Str("component", name).Logger()
}

// Get returns the configured logger for components that take a zerolog.Logger
func Get() *zerolog.Logger {
	return &defaultLogger
}

func init() {
	Configure(Config{Level: InfoLevel, Format: FormatText})
}
