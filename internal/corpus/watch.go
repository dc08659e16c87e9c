package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// StoreWatcher watches a disk-backed document store and invokes onChange
// (debounced) when files appear, change, or disappear. It is used to
// invalidate a snapshot Cache without waiting out the TTL.
type StoreWatcher struct {
	root     string
	onChange func()
	debounce time.Duration
	logger   *zap.Logger

	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	started  bool
	stopOnce sync.Once
	done     chan struct{}
}

// NewStoreWatcher creates a watcher over root. onChange is called after file
// events settle.
func NewStoreWatcher(root string, onChange func(), logger *zap.Logger) *StoreWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreWatcher{
		root:     root,
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins watching root and all its subdirectories. It runs until ctx
// is cancelled or Stop is called.
func (w *StoreWatcher) Start(ctx context.Context) error {
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
	w.watcher = watcher
	w.started = true
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.loop(ctx)
	return nil
}

func (w *StoreWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := w.watcher.Add(path); addErr != nil {
				w.logger.Warn("watch add failed", zap.String("path", path), zap.Error(addErr))
			}
		}
		return nil
	})
}

func (w *StoreWatcher) loop(ctx context.Context) {
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
			w.logger.Debug("store event", zap.String("op", event.Op.String()), zap.String("path", event.Name))
			// New subdirectories must be watched too.
			if event.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}
			w.fire()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("store watch error", zap.Error(err))
		}
	}
}

// fire schedules onChange after the debounce window, collapsing event bursts.
func (w *StoreWatcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

// Stop stops watching. Safe to call more than once.
func (w *StoreWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
		w.mu.Unlock()
	})
}
