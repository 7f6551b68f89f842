// Package watch signals changes to session files so the picker can refresh.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes from an active session.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a projects directory and each project directory below it.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	changes  chan struct{}

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// New creates a watcher over root, the Claude Code projects directory.
func New(root string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		logger:   logger,
		watcher:  fw,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Start adds the directories and runs the event loop until ctx is done or
// Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.root); err != nil {
		return err
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			w.add(filepath.Join(w.root, e.Name()))
		}
	}
	go w.loop(ctx)
	return nil
}

// Changes receives a value after session files changed. Signals that arrive
// while one is pending are merged. The channel is closed by Close.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher and closes the Changes channel. Calling it again
// does nothing.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.changes)
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) add(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("failed to watch directory", "dir", dir, "error", err)
		return
	}
	w.logger.Debug("watching directory", "dir", dir)
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// New project directories appear directly under the root.
	if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == w.root {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.add(event.Name)
			return
		}
	}
	if !strings.HasSuffix(event.Name, ".jsonl") {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.changes <- struct{}{}:
		w.logger.Debug("session files changed", "root", w.root)
	default:
	}
}
