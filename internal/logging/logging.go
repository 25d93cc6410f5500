// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Setup configures the default logger. level is one of debug, info, warn, error;
// anything unparseable falls back to warn. A nil writer means stderr.
func Setup(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		ReportCaller:    lvl == log.DebugLevel,
	})
	log.SetDefault(logger)
}

// Component returns a child of the default logger tagged with the component name
func Component(name string) *log.Logger {
	return log.Default().With("component", name)
}

// Verbosity maps the CLI's -v count to a level name
func Verbosity(n int) string {
	switch {
	case n <= 0:
		return "warn"
	case n == 1:
		return "info"
	default:
		return "debug"
	}
}
