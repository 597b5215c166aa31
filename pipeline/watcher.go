package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the input watcher
type WatcherConfig struct {
	// Paths are the files whose changes trigger a run (model file, archives)
	Paths []string

	// DebounceDelay is how long to wait for more changes before running
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// RunFunc performs one run. Its error is logged and does not stop watching.
type RunFunc func(ctx context.Context) error

// Watcher re-runs extraction when any input file changes content.
type Watcher struct {
	config  WatcherConfig
	run     RunFunc
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	tracked map[string]bool

	// Debouncing: collect changes before running
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	// State tracking for change detection
	hashMu sync.RWMutex
	hashes map[string]string

	runs chan struct{}
}

// NewWatcher creates a watcher over config.Paths.
func NewWatcher(config WatcherConfig, run RunFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = 100 * time.Millisecond
	}

	tracked := make(map[string]bool)
	for _, p := range config.Paths {
		if abs, err := filepath.Abs(p); err == nil {
			tracked[abs] = true
		}
	}

	return &Watcher{
		config:  config,
		run:     run,
		watcher: fsw,
		logger:  logger,
		tracked: tracked,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		runs:    make(chan struct{}, 16),
	}, nil
}

// Runs signals after each completed run. Signals are dropped when nobody
// reads them.
func (w *Watcher) Runs() <-chan struct{} {
	return w.runs
}

// Watch runs once, then again after every debounced content change, until
// ctx is done. Parent directories are watched so that editors replacing a
// file by rename are still observed.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()

	dirs := make(map[string]bool)
	for p := range w.tracked {
		dirs[filepath.Dir(p)] = true
		w.SetHash(p, hashFile(p))
	}
	for d := range dirs {
		if err := w.watcher.Add(d); err != nil {
			return err
		}
		w.logger.Debug("Watching directory", "path", d)
	}

	w.execute(ctx)

	w.logger.Info("File watcher started",
		"files", len(w.tracked),
		"debounce", w.config.DebounceDelay)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	var lastEvent time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleFSEvent(event) {
				lastEvent = time.Now()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			if !lastEvent.IsZero() && time.Since(lastEvent) >= w.config.DebounceDelay {
				lastEvent = time.Time{}
				if w.flushPending() {
					w.execute(ctx)
				}
			}
		}
	}
}

// handleFSEvent records a change to a tracked file.
func (w *Watcher) handleFSEvent(event fsnotify.Event) bool {
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.tracked[path] {
		return false
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		"path", path,
		"op", event.Op.String())
	return true
}

// flushPending reports whether any pending file changed content.
func (w *Watcher) flushPending() bool {
	w.pendingMu.Lock()
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	changed := false
	for path := range toProcess {
		hash := hashFile(path)
		if old, ok := w.GetHash(path); ok && old == hash {
			continue
		}
		w.SetHash(path, hash)
		changed = true
	}
	return changed
}

func (w *Watcher) execute(ctx context.Context) {
	if err := w.run(ctx); err != nil {
		w.logger.Error("Run failed", "error", err)
	}
	select {
	case w.runs <- struct{}{}:
	default:
	}
}

// SetHash records the content hash of a file
func (w *Watcher) SetHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

// GetHash returns the recorded hash for a file
func (w *Watcher) GetHash(path string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	hash, ok := w.hashes[path]
	return hash, ok
}

// hashFile returns the hex SHA-256 of a file, or "" when it cannot be read.
func hashFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
