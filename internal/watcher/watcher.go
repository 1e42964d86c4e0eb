// Package watcher reloads the gateway config when its file changes on disk,
// with fsnotify and debouncing.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pajuhan/tezyab/internal/config"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// ConfigWatcher watches one config file and invokes a callback with the
// freshly loaded config after each change. A change that fails to load is
// logged and ignored, so the running config is never replaced by a broken
// one.
type ConfigWatcher struct {
	path     string
	onReload func(*config.Config)
	debounce time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	started  bool
	stopOnce sync.Once
	done     chan struct{}
}

// Option configures a ConfigWatcher.
type Option func(*ConfigWatcher)

// WithLogger sets a logger for reload events.
func WithLogger(l *zap.Logger) Option {
	return func(w *ConfigWatcher) { w.logger = l }
}

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *ConfigWatcher) { w.debounce = d }
}

// NewConfigWatcher creates a watcher for the config file at path. onReload is
// called with each successfully reloaded config.
func NewConfigWatcher(path string, onReload func(*config.Config), opts ...Option) *ConfigWatcher {
	w := &ConfigWatcher{
		path:     path,
		onReload: onReload,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start starts watching. It runs until ctx is cancelled or Stop is called.
// The parent directory is watched rather than the file itself, because most
// editors and config management tools replace the file on save.
func (w *ConfigWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *ConfigWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.watcher != nil {
			w.watcher.Close()
		}
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
}

func (w *ConfigWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watch error", zap.Error(err))
		}
	}
}

// scheduleReload debounces bursts of write events into one reload.
func (w *ConfigWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *ConfigWatcher) reload() {
	cfg, err := config.Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous config",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}
	w.logger.Info("config reloaded", zap.String("path", w.path))
	w.onReload(cfg)
}
