package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// ConfigWatcher reports changes to a set of configuration files. Editors
// often replace files instead of writing them, so the parent directories are
// watched and events are filtered by file name.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool
}

// NewConfigWatcher creates a watcher for files.
func NewConfigWatcher(files []string, logger *zap.Logger) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	cw := &ConfigWatcher{
		watcher:  w,
		debounce: DefaultDebounce,
		logger:   logger,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}
	if err := cw.SetFiles(files); err != nil {
		w.Close()
		return nil, err
	}
	return cw, nil
}

// SetFiles replaces the watched file set, e.g. after includes changed.
func (cw *ConfigWatcher) SetFiles(files []string) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.files = make(map[string]bool, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f, err)
		}
		cw.files[abs] = true

		dir := filepath.Dir(abs)
		if cw.dirs[dir] {
			continue
		}
		if err := cw.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		cw.dirs[dir] = true
	}
	return nil
}

func (cw *ConfigWatcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.files[abs]
}

// Run forwards one signal on changed per settled burst of changes. It
// blocks until ctx is cancelled and closes the underlying watcher.
func (cw *ConfigWatcher) Run(ctx context.Context, changed chan<- struct{}) error {
	defer cw.watcher.Close()

	timer := time.NewTimer(cw.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !cw.matches(ev.Name) {
				continue
			}
			cw.logger.Debug("config file changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(cw.debounce)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			cw.logger.Warn("config watcher error", zap.Error(err))
		case <-timer.C:
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	}
}
