// Copyright 2019 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// TestMemFs returns an in-memory filesystem holding files, keyed by path.
func TestMemFs(tb testing.TB, files map[string]string) afero.Fs {
	tb.Helper()
	fs := afero.NewMemMapFs()
	for name, contents := range files {
		if err := fs.MkdirAll(filepath.Dir(name), 0o700); err != nil {
			tb.Fatal(err)
		}
		if err := afero.WriteFile(fs, name, []byte(contents), 0o600); err != nil {
			tb.Fatal(err)
		}
	}
	return fs
}
