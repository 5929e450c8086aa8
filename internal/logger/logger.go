package logger

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a JSON slog.Logger writing to w. Unknown levels fall back to warn.
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler)
}

// ParseLevel maps a textual level onto slog levels.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelWarn
	}
	return l
}
