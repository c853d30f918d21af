// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

// FakeWatcher implements an in-memory Watcher.
type FakeWatcher struct {
	watchesMu sync.RWMutex
	watches   map[string]map[Processor]struct{}
	isClosed  bool
}

// NewFakeWatcher returns a fake Watcher for use in tests.
func NewFakeWatcher() *FakeWatcher {
	return &FakeWatcher{
		watches: make(map[string]map[Processor]struct{})}
}

func (w *FakeWatcher) Observe(name string, p Processor) error {
	w.watchesMu.Lock()
	defer w.watchesMu.Unlock()
	_, ok := w.watches[name]
	if !ok {
		w.watches[name] = make(map[Processor]struct{})
	}
	w.watches[name][p] = struct{}{}
	return nil
}

// Close closes down the FakeWatcher
func (w *FakeWatcher) Close() error {
	w.watchesMu.Lock()
	w.isClosed = true
	w.watchesMu.Unlock()
	return nil
}

func (w *FakeWatcher) sendEvent(e Event) {
	w.watchesMu.RLock()
	watches, ok := w.watches[e.Pathname]
	closed := w.isClosed
	w.watchesMu.RUnlock()
	if !ok || closed {
		glog.Warningf("can't %s: not watching %s", e.Op, e.Pathname)
		return
	}
	for p := range watches {
		p.ProcessFileEvent(context.Background(), e)
	}
}

// InjectUpdate lets a test inject a fake update event.
func (w *FakeWatcher) InjectUpdate(name string) {
	w.sendEvent(Event{Update, name})
}

// InjectDelete lets a test inject a fake deletion event.
func (w *FakeWatcher) InjectDelete(name string) {
	w.sendEvent(Event{Delete, name})
}
