// Package logging sets up the program's file logger. While the picker owns
// the terminal nothing may be written to stdout or stderr, so logs go to a
// file given with --log, or nowhere.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Open returns a logger writing to path and a function closing the file.
// An empty path yields a logger that discards everything.
func Open(path string, verbose bool) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := New(f, verbose)
	logger.Debug("logger initialized", "path", path)
	return logger, f.Close, nil
}

// New returns a text logger writing to w.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Timed logs the duration of an operation. Usage:
//
//	defer logging.Timed(logger, "gather sessions")()
func Timed(logger *slog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug(operation, "status", "started")
	return func() {
		logger.Debug(operation, "status", "completed", "duration", time.Since(start))
	}
}
