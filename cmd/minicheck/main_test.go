// Copyright 2018 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/minic-lang/minic/internal/compiler"
	"github.com/minic-lang/minic/internal/testutil"
)

// int g; int main() { return g; }
const goodTree = `{"kind": "CompUnit", "units": [
  {"kind": "Decl", "line": 1, "decl": {"kind": "VarDecl", "line": 1, "type": "int", "defs": [{"kind": "VarDef", "line": 1, "name": "g"}]}},
  {"kind": "FuncDef", "line": 2, "type": "int", "name": "main", "body": {"kind": "Block", "line": 2, "stmts": [
    {"kind": "ReturnStmt", "line": 2, "expr": {"kind": "LVal", "line": 2, "name": "g"}}]}}]}`

// int g; int g;
const badTree = `{"kind": "CompUnit", "units": [
  {"kind": "Decl", "line": 1, "decl": {"kind": "VarDecl", "line": 1, "type": "int", "defs": [{"kind": "VarDef", "line": 1, "col": 5, "name": "g"}]}},
  {"kind": "Decl", "line": 2, "decl": {"kind": "VarDecl", "line": 2, "type": "int", "defs": [{"kind": "VarDef", "line": 2, "col": 5, "name": "g"}]}}]}`

func TestRun(t *testing.T) {
	fs := testutil.TestMemFs(t, map[string]string{
		"good.json": goodTree,
		"bad.json":  badTree,
	})
	c, err := compiler.New(compiler.Filesystem(fs))
	testutil.FatalIfErr(t, err)

	for _, tc := range []struct {
		name   string
		paths  []string
		status int
		output string
	}{
		{"all good", []string{"good.json"}, 0, ""},
		{"one bad", []string{"good.json", "bad.json"}, 1, "bad.json:2:5: redefinition of `g' previously declared at bad.json:1:5\n"},
		{"missing", []string{"none.json"}, 1, "failed to read program \"none.json\""},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			status := run(context.Background(), c, tc.paths, &out)
			testutil.ExpectNoDiff(t, tc.status, status)
			if !strings.Contains(out.String(), tc.output) {
				t.Errorf("output %q does not contain %q", out.String(), tc.output)
			}
		})
	}
}
