// Package logging builds the charmbracelet/log logger shared by every binary.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/MihkelHunter/tasklist/internal/config"
)

// New returns a leveled logger writing to w, configured from cfg.
func New(w io.Writer, cfg config.LogConfig) *log.Logger {
	level := ParseLevel(cfg.Level)
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       ParseFormatter(cfg.Format),
		ReportTimestamp: true,
		ReportCaller:    level == log.DebugLevel,
		Prefix:          config.AppName,
	})
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel parses a level name. Unknown names yield info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name: text, json or logfmt.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
