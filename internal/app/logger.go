package app

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a text logger on stderr. Level names follow slog;
// anything unrecognized means warn.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil || level == "" {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
