package app

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors emit when saving
// (truncate, write, rename) into a single reload.
const watchDebounce = 100 * time.Millisecond

// fileWatcher watches a single document for external changes. It watches
// the containing directory rather than the file itself so atomic saves
// (write to temp, rename over) are not lost when the original inode goes
// away.
type fileWatcher struct {
	fsw *fsnotify.Watcher
	log *Logger
	out chan struct{}

	mu      sync.Mutex
	target  string
	dir     string
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
}

func newFileWatcher(log *Logger) (*fileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &fileWatcher{
		fsw:     fsw,
		log:     log,
		out:     make(chan struct{}, 1),
		closeCh: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch re-targets the watcher at path. The previous target's directory is
// dropped unless shared.
func (w *fileWatcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if w.dir != "" && w.dir != dir {
		_ = w.fsw.Remove(w.dir)
	}
	if w.dir != dir {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dir = dir
	}
	w.target = abs
	return nil
}

// C delivers one value per debounced change to the watched file.
func (w *fileWatcher) C() <-chan struct{} {
	return w.out
}

// Close stops the watcher. Pending debounce timers are abandoned.
func (w *fileWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	_ = w.fsw.Close()
}

func (w *fileWatcher) loop() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *fileWatcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || filepath.Clean(ev.Name) != w.target {
		return
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, func() {
		select {
		case w.out <- struct{}{}:
		default:
		}
	})
}
