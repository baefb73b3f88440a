// Package logging builds the structured loggers used by the CLI and the
// scenario runner.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures a logger.
type Options struct {
	Level  string    // debug, info, warn, error
	Output io.Writer // default os.Stderr
	Prefix string
}

// ParseLevel converts a level name to log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
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

// New creates a logger. BOOKCLUB_LOG_LEVEL, when set, wins over opts.Level.
func New(opts Options) *log.Logger {
	if lvl := os.Getenv("BOOKCLUB_LOG_LEVEL"); lvl != "" {
		opts.Level = lvl
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		Level:           ParseLevel(opts.Level),
		Prefix:          opts.Prefix,
		TimeFormat:      time.Kitchen,
		ReportTimestamp: true,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
