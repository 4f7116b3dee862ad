package prefabs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports edits to prefab specs, scripts and level files on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches the given directories. Directories that do not exist
// are skipped so the game can run outside the source tree; it is an error
// only when none of them exist.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("prefabs: watcher: %w", err)
	}

	watched := 0
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("prefabs: watch %s: %w", dir, err)
		}
		watched++
	}
	if watched == 0 {
		_ = w.Close()
		return nil, fmt.Errorf("prefabs: none of %v exist", dirs)
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Poll drains pending change events without blocking and reports the last
// changed path.
func (w *Watcher) Poll() (string, bool) {
	if w == nil {
		return "", false
	}
	var last string
	changed := false
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return last, changed
			}
			last = name
			changed = true
		default:
			return last, changed
		}
	}
}

func (w *Watcher) run() {
	defer close(w.done)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsWatchedFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// IsWatchedFile reports whether an edit to path should reload the level.
func IsWatchedFile(path string) bool {
	return isSpecFile(path) || isScriptFile(path) || isLevelFile(path)
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}

func isLevelFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
