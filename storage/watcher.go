// SPDX-License-Identifier: MIT

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 250 * time.Millisecond

// Change reports that one watched input file was written, created or removed.
type Change struct {
	File string    // absolute path
	At   time.Time // time of the last raw event folded into this change
}

// stamp is what a file looked like when last settled; the zero stamp means absent.
type stamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

func stampOf(path string) stamp {
	fi, err := os.Stat(path)
	if err != nil {
		return stamp{}
	}

	return stamp{exists: true, size: fi.Size(), modTime: fi.ModTime()}
}

func (s stamp) same(o stamp) bool {
	return s.exists == o.exists && s.size == o.size && s.modTime.Equal(o.modTime)
}

// Watcher reports debounced changes to a fixed set of input files. It watches
// their parent directories so editors that replace files atomically are seen.
//
// A consumer that itself writes a watched file (a run stored into the database
// it reads) calls Settle after the write; Changed then reports false for the
// echo of that write.
type Watcher struct {
	Changes <-chan Change // read-only external channel
	Errors  <-chan error

	files    map[string]bool
	debounce time.Duration
	changes  chan Change
	errs     chan error
	done     chan struct{}
	started  bool
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	settled map[string]stamp
}

// NewWatcher creates a watcher for files. debounce ≤ 0 selects DefaultDebounce.
func NewWatcher(debounce time.Duration, files ...string) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		settled:  make(map[string]stamp, len(files)),
		debounce: debounce,
		changes:  make(chan Change, 16),
		errs:     make(chan error, 4),
		done:     make(chan struct{}),
		watcher:  fw,
	}
	w.Changes, w.Errors = w.changes, w.errs
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
	}

	return w, nil
}

// Start begins watching the parent directory of every file.
func (w *Watcher) Start() error {
	dirs := map[string]bool{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := w.watcher.Add(d); err != nil {
			w.watcher.Close()
			return fmt.Errorf("storage: watch %s: %w", d, err)
		}
	}
	w.started = true
	go w.loop()

	return nil
}

// Stop closes the watcher and waits for the loop to exit; pending changes
// are flushed before the channels close. Call it once.
func (w *Watcher) Stop() {
	w.watcher.Close()
	if w.started {
		<-w.done
	}
	close(w.changes)
	close(w.errs)
}

// Settle records the current state of files as already handled. Files that
// are not watched are ignored.
func (w *Watcher) Settle(files ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil || !w.files[abs] {
			continue
		}
		w.settled[abs] = stampOf(abs)
	}
}

// Changed reports whether file differs from its settled state. A file that
// was never settled always counts as changed.
func (w *Watcher) Changed(file string) bool {
	abs, err := filepath.Abs(file)
	if err != nil {
		return true
	}
	w.mu.Lock()
	prev, ok := w.settled[abs]
	w.mu.Unlock()

	return !ok || !stampOf(abs).same(prev)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file, t := range pending {
					w.emit(Change{File: file, At: t})
				}
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[abs] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for file, t := range pending {
				if now.Sub(t) >= w.debounce {
					w.emit(Change{File: file, At: t})
					delete(pending, file)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default: // drop when nobody listens
			}
		}
	}
}

func (w *Watcher) emit(c Change) {
	select {
	case w.changes <- c:
	default: // buffer full; the consumer reloads every file anyway
	}
}
