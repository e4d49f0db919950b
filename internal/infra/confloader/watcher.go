package confloader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/NerdyDuck/NerdyDuck.Collections/pkg/collections/cow"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

type subscription struct {
	fn func(path string)
}

// Watcher reports writes to one configuration file.
type Watcher struct {
	fw       *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      *slog.Logger

	// read on every event, written only on (un)subscribe
	callbacks *cow.List[*subscription]

	done     chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for watcher events.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.log = l }
}

// WithDebounce sets how long the watcher waits for events to settle before
// notifying. Zero notifies on every event.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher watches path. The parent directory is watched rather than the
// file itself so that editors which save by rename are still seen.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:        fw,
		path:      filepath.Clean(path),
		debounce:  DefaultDebounce,
		log:       slog.Default(),
		callbacks: cow.New[*subscription](),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Debug("watching config file", "file", w.path)
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// OnChange registers fn and returns a function that unregisters it. Both
// are safe to call from inside a callback.
func (w *Watcher) OnChange(fn func(path string)) (cancel func()) {
	sub := &subscription{fn: fn}
	_ = w.callbacks.Add(sub)
	return func() { _, _ = w.callbacks.Remove(sub) }
}

// Start dispatches changes until Stop is called.
func (w *Watcher) Start() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("config file changed", "op", ev.Op.String())
			switch {
			case w.debounce <= 0:
				w.notify()
			case timer == nil:
				timer = time.AfterFunc(w.debounce, w.notify)
			default:
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// StartAsync runs Start in a new goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop ends dispatching and releases the underlying watch. Later calls
// return nil.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fw.Close()
	})
	return err
}

// notify calls the callbacks registered when it starts. Callbacks added or
// removed meanwhile take effect on the next change.
func (w *Watcher) notify() {
	for _, sub := range w.callbacks.All() {
		sub.fn(w.path)
	}
}
