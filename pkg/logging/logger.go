// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Per-page fetch attempts (page, slot, attempt)
//   - Extraction counts per page
//   - Slot pacing waits
//
// Info: Normal operation events
//   - Session start/finish with totals
//   - Detected vs effective page counts
//   - Wave completion and batch delays
//   - Retry pass summary
//
// Warn: Warning conditions that don't prevent operation
//   - Page retry attempts
//   - Blocked or thin content classifications
//   - Bypass state invalidation
//   - Elevated batch delay tiers
//
// Error: Error conditions requiring attention
//   - Pages dropped after the retry pass
//   - Renderer pool construction failures
//   - Bypass store unavailability
//
// Context Fields:
//   - category: identifier category (transactions, internal)
//   - page: page number being fetched
//   - slot: worker slot index
//   - wave: wave number within the session
//   - attempt: attempt number for the current task
//   - error_class: error classification (navigation, timeout, insufficient, blocked, ...)
//   - hashes: identifiers extracted from a page
//   - errors_in_wave: failed tasks observed in the last wave
//   - delay: applied pacing or batch delay
