// Package logging configures the console logger.
package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/chaos-tools/chaos-assistant/internal/config"
)

// New creates a leveled console logger from the configuration.
func New(w io.Writer, cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter(cfg.LogFormat),
		ReportTimestamp: cfg.LogTimestamps,
		Prefix:          "chaos",
	})
}

// formatter maps a config string to a log formatter, defaulting to text.
func formatter(name string) log.Formatter {
	switch name {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
