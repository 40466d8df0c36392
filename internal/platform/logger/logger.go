package logger

import (
	"log/slog"
	"os"
)

// New returns a structured JSON logger. Level should be a valid slog level
// string: DEBUG, INFO, WARN, ERROR; unrecognized values default to INFO.
// Source locations are attached only at DEBUG to keep production log lines
// compact.
func New(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: lvl == slog.LevelDebug,
		Level:     lvl,
	}))
}
