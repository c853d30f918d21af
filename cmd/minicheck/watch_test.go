// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/minic-lang/minic/internal/compiler"
	"github.com/minic-lang/minic/internal/testutil"
	"github.com/minic-lang/minic/internal/watcher"
	"github.com/spf13/afero"
)

func TestRecheckOnUpdate(t *testing.T) {
	fs := testutil.TestMemFs(t, map[string]string{"/progs/p.json": goodTree})
	c, err := compiler.New(compiler.Filesystem(fs))
	testutil.FatalIfErr(t, err)

	var out bytes.Buffer
	r := newRechecker(c, fs, &out)
	w := watcher.NewFakeWatcher()
	testutil.FatalIfErr(t, w.Observe("/progs/p.json", r))

	w.InjectUpdate("/progs/p.json")
	testutil.ExpectNoDiff(t, "/progs/p.json: OK\n", out.String())

	// Unchanged contents are not checked again.
	out.Reset()
	w.InjectUpdate("/progs/p.json")
	testutil.ExpectNoDiff(t, "", out.String())

	out.Reset()
	testutil.FatalIfErr(t, afero.WriteFile(fs, "/progs/p.json", []byte(badTree), 0o600))
	w.InjectUpdate("/progs/p.json")
	testutil.ExpectNoDiff(t, "p.json:2:5: redefinition of `g' previously declared at p.json:1:5\n", out.String())

	// A deleted and recreated program is checked again even if unchanged.
	out.Reset()
	w.InjectDelete("/progs/p.json")
	w.InjectUpdate("/progs/p.json")
	testutil.ExpectNoDiff(t, "p.json:2:5: redefinition of `g' previously declared at p.json:1:5\n", out.String())
}

func TestRecheckUnreadable(t *testing.T) {
	fs := afero.NewMemMapFs()
	c, err := compiler.New(compiler.Filesystem(fs))
	testutil.FatalIfErr(t, err)

	var out bytes.Buffer
	r := newRechecker(c, fs, &out)
	w := watcher.NewFakeWatcher()
	testutil.FatalIfErr(t, w.Observe("/progs/gone.json", r))
	w.InjectUpdate("/progs/gone.json")
	testutil.ExpectNoDiff(t, "", out.String())
}

func TestWatchKeepsFirstPassStatus(t *testing.T) {
	fs := testutil.TestMemFs(t, map[string]string{
		"/progs/good.json": goodTree,
		"/progs/bad.json":  badTree,
	})
	c, err := compiler.New(compiler.Filesystem(fs))
	testutil.FatalIfErr(t, err)

	for _, tc := range []struct {
		name   string
		paths  []string
		status int
	}{
		{"all good", []string{"/progs/good.json"}, 0},
		{"one bad", []string{"/progs/good.json", "/progs/bad.json"}, 1},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			w := watcher.NewFakeWatcher()
			done := make(chan struct{})
			close(done)
			status, err := watchPrograms(context.Background(), c, w, fs, tc.paths, &out, done)
			testutil.FatalIfErr(t, err)
			testutil.ExpectNoDiff(t, tc.status, status)

			// The watcher is closed once watching stops.
			out.Reset()
			w.InjectUpdate("/progs/good.json")
			testutil.ExpectNoDiff(t, "", out.String())
		})
	}
}
