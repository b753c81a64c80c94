package settings

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long the settings file must stay unchanged before it is reloaded.
const debounce = 100 * time.Millisecond

// Watcher reloads a settings file whenever it changes on disk. Successfully loaded settings are sent
// on Reloads and failures on Errors. Both channels are closed once the watcher stops.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher

	Reloads chan Settings
	Errors  chan error

	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher starts watching the settings file at the path passed. The parent directory is watched
// so that editors replacing the file are noticed too.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		path:    abs,
		watcher: w,
		Reloads: make(chan Settings, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Reloads)
	defer close(w.Errors)

	// Editors usually write a file in several steps, so the reload waits until the file has been
	// quiet for the debounce window.
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || filepath.Clean(event.Name) != w.path {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			s, err := Load(w.path)
			if err != nil {
				w.send(nil, err)
				continue
			}
			w.send(&s, nil)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(nil, err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) send(s *Settings, err error) {
	if err != nil {
		select {
		case w.Errors <- err:
		case <-w.closeCh:
		}
		return
	}
	select {
	case w.Reloads <- *s:
	case <-w.closeCh:
	}
}
