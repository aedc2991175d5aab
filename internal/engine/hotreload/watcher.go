// Package hotreload watches the shader override directory for edits.
//
// The fsnotify goroutine only records file names. GPU work happens when the
// render thread drains Changes between frames.
package hotreload

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher coalesces file events under a directory until they are drained.
type Watcher struct {
	fs  *fsnotify.Watcher
	dir string
	log *zap.Logger

	mu      sync.Mutex
	changed map[string]struct{}
	closed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

// Watch starts watching dir (non-recursively). Only exts are reported; an empty
// list reports every file.
func Watch(dir string, log *zap.Logger, exts ...string) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		fs:      fs,
		dir:     dir,
		log:     log,
		changed: make(map[string]struct{}),
		done:    make(chan struct{}),
	}

	filter := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		filter[e] = struct{}{}
	}

	w.wg.Add(1)
	go w.run(filter)

	log.Info("watching for changes", zap.String("dir", dir))
	return w, nil
}

func (w *Watcher) run(filter map[string]struct{}) {
	defer w.wg.Done()

	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Base(e.Name)
			if len(filter) > 0 {
				if _, ok := filter[filepath.Ext(name)]; !ok {
					continue
				}
			}
			w.mu.Lock()
			w.changed[name] = struct{}{}
			w.mu.Unlock()
			w.log.Debug("file changed", zap.String("file", name), zap.Stringer("op", e.Op))

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Changes returns the sorted base names changed since the last call, or nil.
func (w *Watcher) Changes() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.changed) == 0 {
		return nil
	}
	names := make([]string, 0, len(w.changed))
	for name := range w.changed {
		names = append(names, name)
		delete(w.changed, name)
	}
	sort.Strings(names)
	return names
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
