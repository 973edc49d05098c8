package main

import (
	"log/slog"
	"os"

	"github.com/phsym/console-slog"
	"golang.org/x/term"
)

// parseLevel maps a config log_level onto a slog level. Unknown names fall
// back to info; config validation rejects them earlier.
func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger builds the process logger. Colored console output is used only
// when stderr is a terminal; display managers and log files get plain text.
func newLogger(out *os.File, level slog.Leveler) *slog.Logger {
	if term.IsTerminal(int(out.Fd())) {
		return slog.New(console.NewHandler(out, &console.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
