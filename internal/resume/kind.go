package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davidpaquet/ccsession/internal/clipboard"
	"github.com/davidpaquet/ccsession/internal/model"
)

// ErrTooManySelections is returned when more sessions are selected than
// Kind.MaxSelections allows.
var ErrTooManySelections = errors.New("too many sessions selected")

// ErrResumeFailed is matched by the error Resume returns when at least one
// session failed to launch. Every failure has already been written to
// Kind.Errors.
var ErrResumeFailed = errors.New("resume failed")

// Kind resumes selected sessions one after another.
type Kind struct {
	// MaxSelections guards against launching many agents by accident.
	// Values below 1 mean 1.
	MaxSelections int
	Options       Options
	Launcher      Launcher
	Logger        *slog.Logger
	// Errors receives one diagnostic line per failed session.
	Errors io.Writer
}

// Resume launches every item. A failing item is reported on Errors and the
// rest are still resumed; the returned error then matches ErrResumeFailed
// and wraps each launch error. Cancelling ctx stops before the next item.
// Too many items launch nothing and return ErrTooManySelections unreported.
func (k *Kind) Resume(ctx context.Context, items []model.ActionData) error {
	limit := max(k.MaxSelections, 1)
	if len(items) > limit {
		return fmt.Errorf("cannot resume %d sessions at once (max_selections = %d): %w", len(items), limit, ErrTooManySelections)
	}

	var failed []error
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		opts := k.Options.WithDefaults()
		dir := opts.Cwd
		if dir == "" {
			dir = item.ProjectPath
		}
		argv := Command(item.SessionID, opts)
		k.logger().Info("resuming session", "session", item.SessionID, "dir", dir, "argv", argv)

		if err := k.launcher().Launch(ctx, argv, dir); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			k.logger().Error("resume failed", "session", item.SessionID, "error", err)
			k.printf("ccsession: failed to resume session %s: %v", item.SessionID, err)
			failed = append(failed, fmt.Errorf("session %s: %w", item.SessionID, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d sessions: %w", ErrResumeFailed, len(failed), len(items), errors.Join(failed...))
	}
	return nil
}

// Copy puts the shell command resuming item on the clipboard and returns it.
func (k *Kind) Copy(c clipboard.Copier, item model.ActionData) (string, error) {
	opts := k.Options.WithDefaults()
	dir := opts.Cwd
	if dir == "" {
		dir = item.ProjectPath
	}
	line := ShellCommand(item.SessionID, dir, opts)
	return line, c.Copy(line)
}

func (k *Kind) printf(format string, args ...any) {
	w := k.Errors
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func (k *Kind) logger() *slog.Logger {
	if k.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return k.Logger
}

func (k *Kind) launcher() Launcher {
	if k.Launcher == nil {
		return ExecLauncher{}
	}
	return k.Launcher
}
