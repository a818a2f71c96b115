package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports that a watched lockfile changed on disk.
type Event struct {
	Path string
}

// Watcher emits an Event when a yarn.lock under the watched root is
// written, created, renamed, or removed. Bursts of writes within the
// debounce window collapse into one event per file.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	events    chan Event
	stopCh    chan struct{}
	debounce  time.Duration
}

func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsw,
		events:    make(chan Event, 16),
		stopCh:    make(chan struct{}),
		debounce:  200 * time.Millisecond,
	}, nil
}

// Watch registers the directory of every lockfile under root and starts
// the event loop. When root holds no lockfile yet, root itself is
// watched so a later yarn install is picked up.
func (w *Watcher) Watch(root string) error {
	paths, err := Discover(root)
	if err != nil {
		return err
	}

	dirs := make(map[string]bool)
	for _, path := range paths {
		dirs[filepath.Dir(path)] = true
	}
	if len(dirs) == 0 {
		dirs[root] = true
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) Stop() error {
	close(w.stopCh)
	return w.fsWatcher.Close()
}

func (w *Watcher) run() {
	defer close(w.events)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != LockfileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending[event.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			for path := range pending {
				select {
				case w.events <- Event{Path: path}:
				case <-w.stopCh:
					return
				}
			}
			pending = make(map[string]bool)
			fire = nil
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}
}
