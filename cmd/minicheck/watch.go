// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
	"github.com/golang/groupcache/lru"
	"github.com/minic-lang/minic/internal/compiler"
	"github.com/minic-lang/minic/internal/watcher"
	"github.com/spf13/afero"
)

const maxTrackedPrograms = 256

// rechecker checks a program again each time its file changes.  A program
// whose contents are unchanged since the last check is not checked again.
type rechecker struct {
	c  *compiler.Compiler
	fs afero.Fs

	mu      sync.Mutex // protects w and digests
	w       io.Writer
	digests *lru.Cache // sha256 of the last checked contents, by path
}

func newRechecker(c *compiler.Compiler, fs afero.Fs, w io.Writer) *rechecker {
	return &rechecker{c: c, fs: fs, w: w, digests: lru.New(maxTrackedPrograms)}
}

// ProcessFileEvent implements watcher.Processor.
func (r *rechecker) ProcessFileEvent(ctx context.Context, e watcher.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.Op == watcher.Delete {
		glog.Infof("%s removed", e.Pathname)
		r.digests.Remove(e.Pathname)
		return
	}
	data, err := afero.ReadFile(r.fs, e.Pathname)
	if err != nil {
		glog.V(1).Infof("Can't read %s: %s", e.Pathname, err)
		return
	}
	sum := sha256.Sum256(data)
	if prev, ok := r.digests.Get(e.Pathname); ok && prev.([sha256.Size]byte) == sum {
		glog.V(2).Infof("%s unchanged", e.Pathname)
		return
	}
	r.digests.Add(e.Pathname, sum)
	if _, err := r.c.Check(e.Pathname, bytes.NewReader(data)); err != nil {
		fmt.Fprintln(r.w, err)
		return
	}
	fmt.Fprintf(r.w, "%s: OK\n", e.Pathname)
}
