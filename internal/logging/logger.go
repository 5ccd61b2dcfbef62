// Package logging builds the slog loggers used by the lrucache binary.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog"
)

// New returns a logger writing to stderr. format "json" emits one JSON object
// per line; anything else uses the human-readable console writer.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	var zerologLogger zerolog.Logger
	if format == "json" {
		zerologLogger = zerolog.New(w)
	} else {
		zerologLogger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true})
	}
	zerologLogger = zerologLogger.With().Timestamp().Logger()

	return slog.New(slogzerolog.Option{Level: ParseLevel(level), Logger: &zerologLogger}.NewZerologHandler())
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case) to a slog
// level. Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
