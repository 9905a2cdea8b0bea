// Package watch notifies callers when a contacts file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay batches the burst of events a single save produces.
const DefaultDelay = 200 * time.Millisecond

// Config holds configuration for a Watcher.
type Config struct {
	Path     string
	Delay    time.Duration
	OnChange func()
	Logger   *zap.Logger
}

// Watcher monitors one file. The parent directory is watched rather than the
// file itself because saves replace the file by renaming a temp file over it.
type Watcher struct {
	target   string
	delay    time.Duration
	onChange func()
	logger   *zap.Logger
	watcher  *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Watcher. Nothing is observed until Start.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch: no path")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("watch: no change handler")
	}
	target, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", cfg.Path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	delay := cfg.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		target:   target,
		delay:    delay,
		onChange: cfg.OnChange,
		logger:   logger.Named("watch"),
		watcher:  watcher,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching for changes. A failed Start releases the watcher.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.target)
	if err := w.watcher.Add(dir); err != nil {
		w.cancel()
		_ = w.watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching", zap.String("path", w.target))

	w.wg.Add(1)
	go w.eventLoop()
	return nil
}

// Stop stops watching and waits for the event loop to exit. No callback runs
// after Stop returns.
func (w *Watcher) Stop() {
	w.cancel()
	_ = w.watcher.Close()
	w.wg.Wait()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			w.onChange()

		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
