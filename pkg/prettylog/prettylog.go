// Package prettylog wires charmbracelet/log in as the default slog handler.
package prettylog

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Setup installs a charmbracelet handler as the process-wide slog default
// and returns it so callers can adjust the level.
func Setup(w io.Writer, debug bool) *log.Logger {
	handler := log.NewWithOptions(
		w,
		log.Options{
			Level:           log.InfoLevel,
			ReportTimestamp: true,
		},
	)
	if debug {
		handler.SetLevel(log.DebugLevel)
	}

	slog.SetDefault(slog.New(handler))

	return handler
}
