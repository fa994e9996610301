package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/catalogbench/backend/internal/config"
	"github.com/charmbracelet/log"
)

func SetupLogger(cfg *config.Config) *slog.Logger {
	return New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
}

// New builds a logger writing to w. Unknown formats fall back to logfmt and
// unknown levels to info.
func New(w io.Writer, format, level string) *slog.Logger {
	var formatter log.Formatter
	switch strings.ToLower(format) {
	case "json":
		formatter = log.JSONFormatter
	case "text":
		formatter = log.TextFormatter
	default:
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "catalog",
		Formatter:       formatter,
		Level:           parseLevel(level),
	})

	return slog.New(handler)
}

func parseLevel(level string) log.Level {
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
