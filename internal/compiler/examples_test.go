// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minic-lang/minic/internal/testutil"
	"github.com/spf13/afero"
)

const testdataDir = "../../testdata"

// TestExamplePrograms checks each syntax tree in testdata and compares the
// diagnostics with the golden file of the same name.
func TestExamplePrograms(t *testing.T) {
	progs, err := filepath.Glob(filepath.Join(testdataDir, "*.json"))
	testutil.FatalIfErr(t, err)
	if len(progs) == 0 {
		t.Fatalf("no programs found in %s", testdataDir)
	}
	fs := afero.NewReadOnlyFs(afero.NewOsFs())
	c, err := New(Filesystem(fs), CollectAllErrors())
	testutil.FatalIfErr(t, err)

	for _, prog := range progs {
		prog := prog
		t.Run(filepath.Base(prog), func(t *testing.T) {
			golden, err := os.ReadFile(strings.TrimSuffix(prog, ".json") + ".err")
			testutil.FatalIfErr(t, err)

			var got string
			if _, err := c.CheckFile(context.Background(), prog); err != nil {
				got = err.Error() + "\n"
			}
			testutil.ExpectNoDiff(t, string(golden), got)
		})
	}
}
