package main

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

// defaultDebounce applies when the configured delay is not positive.
const defaultDebounce = 500 * time.Millisecond

// sourceWatcher reports debounced changes to YAML config and site files.
type sourceWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu   sync.Mutex
	dirs map[string]bool

	// Debouncing: collect changes before signalling
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	changes chan struct{}
}

func newSourceWatcher(debounce time.Duration, logger *slog.Logger) (*sourceWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &sourceWatcher{
		watcher:  fsw,
		logger:   logger,
		debounce: debounce,
		dirs:     make(map[string]bool),
		pending:  make(map[string]fsnotify.Op),
		changes:  make(chan struct{}, 1),
	}, nil
}

// Changes receives one value per debounced burst of changes.
func (w *sourceWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Watch adds the directory of every path; directories are watched as is.
// Already-watched directories are skipped.
func (w *sourceWatcher) Watch(paths ...string) {
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			dir = filepath.Dir(p)
		}
		w.addDir(dir)
	}
}

func (w *sourceWatcher) addDir(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("Failed to watch directory",
			"path", dir,
			"error", err)
		return
	}
	w.dirs[dir] = true
	w.logger.Debug("Watching directory", "path", dir)
}

// Start processes events until ctx is done or Close is called.
func (w *sourceWatcher) Start(ctx context.Context) {
	go w.processEvents(ctx)
}

// Close stops the watcher.
func (w *sourceWatcher) Close() error {
	return w.watcher.Close()
}

func (w *sourceWatcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *sourceWatcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !isSourceFile(path) {
		// New directories may hold site files
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !strings.HasPrefix(filepath.Base(path), ".") {
				w.addDir(path)
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Source change detected",
		"path", path,
		"op", event.Op.String())
}

func (w *sourceWatcher) flushPending() {
	w.pendingMu.Lock()
	n := len(w.pending)
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	if n == 0 {
		return
	}

	select {
	case w.changes <- struct{}{}:
	default:
		// A re-run is already queued
	}
}

// isSourceFile reports whether path is a YAML file that is not a hidden
// temp file.
func isSourceFile(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
