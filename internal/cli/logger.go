package cli

import (
	"io"
	"log/slog"

	"github.com/calvinalkan/cliche/internal/settings"
)

// newLogger returns a text logger writing to w. It does not touch the
// global default logger, so parallel runs stay isolated.
func newLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// logLevel maps the -d count to a level. Without -d the log_level setting
// decides, defaulting to warn.
func logLevel(debug int, values settings.Values) slog.Level {
	switch {
	case debug >= 2:
		return slog.LevelDebug
	case debug == 1:
		return slog.LevelInfo
	}

	name, _ := values.String(settings.KeyLogLevel)

	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
