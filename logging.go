package spacetraveling

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// NewLogger returns a slog.Logger backed by zerolog. format "console" selects
// zerolog's human-readable writer; anything else writes JSON lines.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(w).With().Timestamp().Logger()

	handler := slogzerolog.Option{
		Level:  ParseLevel(level),
		Logger: &zl,
	}.NewZerologHandler()
	return slog.New(handler)
}

// ParseLevel maps debug, info, warn and error to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
