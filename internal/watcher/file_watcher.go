// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"expvar"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var errorCount = expvar.NewInt("file_watcher_error_count")

// FileWatcher implements a Watcher for program files on the real filesystem.
// Editors often replace a file instead of writing it in place, so the
// directory holding each observed file is watched and events are filtered by
// name.
type FileWatcher struct {
	watcher *fsnotify.Watcher

	watchedMu sync.RWMutex // protects `watched'
	watched   map[string][]Processor

	eventsDone chan struct{} // Channel to notify when the events handler is done.

	closeOnce sync.Once
}

// NewFileWatcher returns a new FileWatcher, or returns an error.
func NewFileWatcher() (*FileWatcher, error) {
	f, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	w := &FileWatcher{
		watcher:    f,
		watched:    make(map[string][]Processor),
		eventsDone: make(chan struct{}),
	}
	go w.runEvents()
	return w, nil
}

func (w *FileWatcher) sendEvent(e Event) {
	w.watchedMu.RLock()
	ps, ok := w.watched[e.Pathname]
	w.watchedMu.RUnlock()
	if !ok {
		glog.V(2).Infof("No watch for path %q", e.Pathname)
		return
	}
	for _, p := range ps {
		p.ProcessFileEvent(context.TODO(), e)
	}
}

func (w *FileWatcher) runEvents() {
	defer close(w.eventsDone)

	// Suck out errors and dump them to the error log.
	go func() {
		for err := range w.watcher.Errors {
			errorCount.Add(1)
			glog.Errorf("fsnotify error: %s\n", err)
		}
	}()

	for e := range w.watcher.Events {
		glog.V(2).Infof("watcher event %v", e)
		switch {
		case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
			w.sendEvent(Event{Update, e.Name})
		case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
			// Rename is only issued on the original file path; the new name receives a Create event
			w.sendEvent(Event{Delete, e.Name})
		default:
			glog.V(2).Infof("Ignoring %v", e)
		}
	}
	glog.Infof("Shutting down file watcher.")
}

// Close shuts down the FileWatcher.  It is safe to call this from multiple clients.
func (w *FileWatcher) Close() (err error) {
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		<-w.eventsDone
	})
	return err
}

// Observe adds a file to the list of watched items.  Changes to the file are
// sent to processor.
func (w *FileWatcher) Observe(path string, processor Processor) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to lookup absolute path of %q", path)
	}
	dir := filepath.Dir(absPath)
	glog.V(2).Infof("Adding a watch on %q for %q", dir, absPath)
	if err := w.watcher.Add(dir); err != nil {
		if !os.IsPermission(err) {
			return errors.Wrapf(err, "failed to create a new watch on %q", dir)
		}
		glog.V(2).Infof("Skipping permission denied error on adding a watch.")
	}
	w.watchedMu.Lock()
	defer w.watchedMu.Unlock()
	for _, p := range w.watched[absPath] {
		if p == processor {
			return nil
		}
	}
	w.watched[absPath] = append(w.watched[absPath], processor)
	return nil
}

// IsWatching indicates if the file is being watched.
func (w *FileWatcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		glog.V(2).Infof("Couldn't resolve path %q: %s", path, err)
		return false
	}
	w.watchedMu.RLock()
	_, ok := w.watched[absPath]
	w.watchedMu.RUnlock()
	return ok
}
