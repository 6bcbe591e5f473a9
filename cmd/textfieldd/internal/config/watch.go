package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher re-resolves textfield.yaml whenever it is written.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	onChange func(*Resolved)
	onError  func(error)
}

// NewWatcher watches dir for changes to textfield.yaml. onChange receives
// every configuration that resolves cleanly; onError receives read,
// parse and validation failures, after which the previous configuration
// stays in effect.
func NewWatcher(dir string, onChange func(*Resolved), onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// The directory is watched so editors that replace the file are seen.
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{dir: dir, watcher: fw, onChange: onChange, onError: onError}, nil
}

// Run delivers reloads until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != FileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce = time.After(reloadDebounce)

		case <-debounce:
			debounce = nil
			r, err := Resolve(w.dir)
			if err != nil {
				w.onError(fmt.Errorf("reload config: %w", err))
				continue
			}
			w.onChange(r)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}
