package steam

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ryanm101/gameswiki/internal/logging"
)

// DefaultDebounce is how long the watcher waits for manifest churn to settle.
const DefaultDebounce = 2 * time.Second

// Watcher emits a refresh request when app manifests change in any watched
// steamapps directory. Bursts of events within the debounce window collapse
// into a single request.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	changes  chan struct{}

	closeOnce sync.Once
}

// NewWatcher watches each existing directory in dirs.
func NewWatcher(dirs []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	watched := 0
	for _, dir := range dirs {
		if !isDir(dir) {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watched++
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logging.Debug("watching steam libraries", "dirs", watched)
	return &Watcher{
		fs:       fsw,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Changes delivers one value per settled burst of manifest changes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run processes filesystem events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !isManifestEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Warn("library watcher error", "error", err)

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// a request is already pending
			}
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() { err = w.fs.Close() })
	return err
}

func isManifestEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ok, _ := filepath.Match(manifestPattern, filepath.Base(event.Name))
	return ok
}
