// Package logging builds the structured, leveled logger shared by the API.
// Components get a child logger with their own prefix so every line says where it came from.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to stderr. Production output is JSON so the
// log shipper can parse it; everywhere else it's the human-friendly text form.
func New(level string, production bool) *log.Logger {
	return NewWithWriter(os.Stderr, level, production)
}

// NewWithWriter is New with an explicit destination (tests pass io.Discard).
func NewWithWriter(w io.Writer, level string, production bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           ParseLevel(level),
	})
	if production {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// ParseLevel maps a LOG_LEVEL string onto a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, "error", false)
}
