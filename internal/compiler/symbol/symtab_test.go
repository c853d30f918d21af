// Copyright 2016 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package symbol

import (
	goerrors "errors"
	"testing"
	"testing/quick"

	"github.com/minic-lang/minic/internal/compiler/types"
	"github.com/minic-lang/minic/internal/testutil"
)

func TestInsertLookup(t *testing.T) {
	tab := NewTable()

	sym1, err := tab.Add("foo", types.Int, nil)
	testutil.FatalIfErr(t, err)

	r1 := tab.Find("foo", false)
	testutil.ExpectNoDiff(t, sym1, r1)
	testutil.ExpectNoDiff(t, "foo", sym1.UniqueName)
	testutil.ExpectNoDiff(t, GlobalDepth, sym1.Depth)
	if !sym1.Defined {
		t.Error("added symbol not marked defined")
	}
	if sym1.Used {
		t.Error("new symbol marked used")
	}
}

func TestLocalFunctionKeepsName(t *testing.T) {
	tab := NewTable()
	tab.Enter()
	f, err := tab.Add("f", types.NewFunction(types.Void), nil)
	testutil.FatalIfErr(t, err)
	if !f.IsFunction() {
		t.Errorf("%v is not a function", f)
	}
	testutil.ExpectNoDiff(t, "f", f.UniqueName)

	x, err := tab.Add("x", types.Int, nil)
	testutil.FatalIfErr(t, err)
	if x.IsFunction() {
		t.Errorf("%v is a function", x)
	}
	testutil.ExpectNoDiff(t, "x.0", x.UniqueName)
}

func TestDuplicateInSameScope(t *testing.T) {
	tab := NewTable()
	tab.Enter()
	_, err := tab.Add("x", types.Int, nil)
	testutil.FatalIfErr(t, err)
	_, err = tab.Add("x", types.Int, nil)
	var dup *DuplicateError
	if !goerrors.As(err, &dup) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	testutil.ExpectNoDiff(t, "x", dup.Name)
}

func TestShadowingInChildScope(t *testing.T) {
	tab := NewTable()
	tab.Enter()
	outer, err := tab.Add("x", types.Int, nil)
	testutil.FatalIfErr(t, err)

	tab.Enter()
	inner, err := tab.Add("x", types.NewArray(types.Int, []int{2}), nil)
	testutil.FatalIfErr(t, err)
	if tab.Find("x", false) != inner {
		t.Errorf("lookup in child did not find inner symbol")
	}
	if outer.UniqueName == inner.UniqueName {
		t.Errorf("shadowing symbols share unique name %q", inner.UniqueName)
	}

	tab.Exit()
	if tab.Find("x", false) != outer {
		t.Errorf("lookup after exit did not find outer symbol")
	}
}

func TestGlobalNamesMustBeUniqueAcrossChain(t *testing.T) {
	tab := NewTable()
	_, err := tab.Add("f", types.NewFunction(types.Void), nil)
	testutil.FatalIfErr(t, err)
	_, err = tab.Add("f", types.Int, nil)
	if err == nil {
		t.Error("expected duplicate global to fail")
	}

	// A function symbol added in a nested scope must not shadow a visible name.
	tab.Enter()
	_, err = tab.Add("f", types.NewFunction(types.Int), nil)
	if err == nil {
		t.Error("expected nested function symbol to clash with global")
	}
	// But a local may shadow it.
	local, err := tab.Add("f", types.Int, nil)
	testutil.FatalIfErr(t, err)
	if local.UniqueName == "f" {
		t.Errorf("local symbol kept its source name")
	}
}

func TestFindCurrentScopeOnly(t *testing.T) {
	tab := NewTable()
	_, err := tab.Add("g", types.Int, nil)
	testutil.FatalIfErr(t, err)
	tab.Enter()
	if tab.Find("g", true) != nil {
		t.Error("found outer symbol with currentOnly set")
	}
	if tab.Find("g", false) == nil {
		t.Error("did not find outer symbol")
	}
	if tab.Find("nope", false) != nil {
		t.Error("found undeclared symbol")
	}
}

func TestUniqueNamesAcrossSiblingBlocks(t *testing.T) {
	tab := NewTable()
	tab.Enter()
	a, err := tab.Add("i", types.Int, nil)
	testutil.FatalIfErr(t, err)
	tab.Exit()
	tab.Enter()
	b, err := tab.Add("i", types.Int, nil)
	testutil.FatalIfErr(t, err)
	tab.Exit()

	if a.UniqueName == b.UniqueName {
		t.Errorf("sibling locals share unique name %q", a.UniqueName)
	}
	if a.UniqueName == a.Name || b.UniqueName == b.Name {
		t.Errorf("local kept its source name: %q %q", a.UniqueName, b.UniqueName)
	}
}

func TestExitKeepsScopes(t *testing.T) {
	tab := NewTable()
	id := tab.Enter()
	sym, err := tab.Add("kept", types.Int, nil)
	testutil.FatalIfErr(t, err)
	tab.Exit()

	testutil.ExpectNoDiff(t, ScopeID(0), tab.Current())
	testutil.ExpectNoDiff(t, 2, tab.Len())
	s := tab.Scope(id)
	if s == nil {
		t.Fatal("exited scope was dropped")
	}
	if s.Lookup("kept") != sym {
		t.Error("exited scope lost its symbol")
	}
	testutil.ExpectNoDiff(t, ScopeID(0), s.Parent)
	if tab.Find("kept", false) != nil {
		t.Error("symbol from exited scope is still visible")
	}
}

func TestExitGlobalIsNoop(t *testing.T) {
	tab := NewTable()
	tab.Exit()
	testutil.ExpectNoDiff(t, GlobalDepth, tab.Depth())
}

func TestDepth(t *testing.T) {
	tab := NewTable()
	tab.Enter()
	tab.Enter()
	testutil.ExpectNoDiff(t, 2, tab.Depth())
	sym, err := tab.Add("d", types.Int, nil)
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, 2, sym.Depth)
}

func TestLocalUniqueNamesNeverCollideQuick(t *testing.T) {
	check := func(names []string) bool {
		tab := NewTable()
		seen := make(map[string]bool)
		for _, name := range names {
			tab.Enter()
			sym, err := tab.Add(name, types.Int, nil)
			if err != nil {
				return false
			}
			if seen[sym.UniqueName] {
				return false
			}
			seen[sym.UniqueName] = true
		}
		return true
	}
	if err := quick.Check(check, nil); err != nil {
		t.Error(err)
	}
}
