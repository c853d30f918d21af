// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package symbol implements the scoped symbol table used during checking.
package symbol

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/golang/glog"
	"github.com/minic-lang/minic/internal/compiler/position"
	"github.com/minic-lang/minic/internal/compiler/types"
)

// GlobalDepth is the depth of the outermost scope.
const GlobalDepth = 0

// Symbol describes a named program object.
type Symbol struct {
	Name       string             // identifier name as written
	UniqueName string             // program-wide unique name for code generation
	Type       types.Type         // object's type
	Depth      int                // depth of the declaring scope
	Defined    bool               // true once the symbol has been entered in a scope
	Used       bool               // true if the symbol is referenced in the program
	Pos        *position.Position // Source file position of definition
}

// IsFunction returns true if the symbol names a function.
func (s *Symbol) IsFunction() bool {
	return types.IsFunction(s.Type)
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s (%s) %s @%d", s.Name, s.UniqueName, s.Type, s.Depth)
}

// ScopeID is a handle to a Scope owned by a Table.
type ScopeID int

// NoScope is the parent of the global scope.
const NoScope ScopeID = -1

// Scope maintains a record of the identifiers declared in one program scope,
// in declaration order, and a link to the parent scope.
type Scope struct {
	ID      ScopeID
	Depth   int
	Parent  ScopeID
	Symbols []*Symbol

	index map[string]*Symbol
}

// Lookup returns the symbol declared directly in this scope, or nil.
func (s *Scope) Lookup(name string) *Symbol {
	return s.index[name]
}

// DuplicateError is returned by Table.Add when a name is already taken.
type DuplicateError struct {
	Name string
	Prev *Symbol
}

func (e *DuplicateError) Error() string {
	if e.Prev != nil && e.Prev.Pos != nil {
		return fmt.Sprintf("redeclaration of `%s' previously declared at %s", e.Name, e.Prev.Pos)
	}
	return fmt.Sprintf("redeclaration of `%s'", e.Name)
}

// Table owns every scope created during one checking run, a cursor to the
// current scope, and the counter used to give block-local symbols unique
// names.  Exiting a scope only moves the cursor; the scope and its symbols
// stay in the table.
type Table struct {
	scopes  []*Scope
	current ScopeID
	nextID  int
}

// NewTable creates a table holding only an empty global scope.
func NewTable() *Table {
	t := &Table{current: NoScope}
	t.current = t.newScope(NoScope, GlobalDepth)
	return t
}

func (t *Table) newScope(parent ScopeID, depth int) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, &Scope{ID: id, Depth: depth, Parent: parent, index: make(map[string]*Symbol)})
	return id
}

// Scope returns the scope with the given handle.
func (t *Table) Scope(id ScopeID) *Scope {
	if id < 0 || int(id) >= len(t.scopes) {
		return nil
	}
	return t.scopes[id]
}

// Current returns the handle of the current scope.
func (t *Table) Current() ScopeID {
	return t.current
}

// Depth returns the depth of the current scope.
func (t *Table) Depth() int {
	return t.scopes[t.current].Depth
}

// Len returns the number of scopes ever created, including exited ones.
func (t *Table) Len() int {
	return len(t.scopes)
}

// Enter creates a new scope one level deeper than the current one and makes
// it current.
func (t *Table) Enter() ScopeID {
	cur := t.scopes[t.current]
	t.current = t.newScope(cur.ID, cur.Depth+1)
	glog.V(2).Infof("Entered scope %d at depth %d", t.current, cur.Depth+1)
	return t.current
}

// Exit makes the parent of the current scope current.  The global scope is
// never exited.
func (t *Table) Exit() {
	cur := t.scopes[t.current]
	if cur.Parent == NoScope {
		glog.Warningf("Exit called on the global scope")
		return
	}
	glog.V(2).Infof("Exited scope %d back to %d", cur.ID, cur.Parent)
	t.current = cur.Parent
}

// Find returns the innermost visible symbol with the given name, searching
// from the current scope outward, or only the current scope if currentOnly is
// set.  It returns nil if no symbol is found.
func (t *Table) Find(name string, currentOnly bool) *Symbol {
	for id := t.current; id != NoScope; id = t.scopes[id].Parent {
		if sym := t.scopes[id].Lookup(name); sym != nil {
			return sym
		}
		if currentOnly {
			break
		}
	}
	return nil
}

// Add declares a new symbol in the current scope.  Global and function
// symbols must not clash with any visible name and keep their own name as
// their unique name.  Other symbols need only be unique in the current scope
// and are given a fresh unique name, so they may shadow outer names.
func (t *Table) Add(name string, typ types.Type, pos *position.Position) (*Symbol, error) {
	scope := t.scopes[t.current]
	sym := &Symbol{Name: name, Type: typ, Depth: scope.Depth, Pos: pos}
	if scope.Depth == GlobalDepth || sym.IsFunction() {
		if alt := t.Find(name, false); alt != nil {
			return nil, &DuplicateError{name, alt}
		}
		sym.UniqueName = name
	} else {
		if alt := t.Find(name, true); alt != nil {
			return nil, &DuplicateError{name, alt}
		}
		sym.UniqueName = name + "." + strconv.Itoa(t.nextID)
		t.nextID++
	}
	sym.Defined = true
	scope.Symbols = append(scope.Symbols, sym)
	scope.index[name] = sym
	glog.V(2).Infof("Added %v to scope %d", sym, scope.ID)
	return sym, nil
}

// String prints the current scope and all parents to a string, recursing up to
// the root scope.  This method is only used for debugging.
func (t *Table) String() string {
	var buf bytes.Buffer
	for id := t.current; id != NoScope; id = t.scopes[id].Parent {
		s := t.scopes[id]
		fmt.Fprintf(&buf, "scope %d depth %d {\n", s.ID, s.Depth)
		for _, sym := range s.Symbols {
			fmt.Fprintf(&buf, "\t%q: %s %s\n", sym.Name, sym.UniqueName, sym.Type)
		}
		fmt.Fprintf(&buf, "}\n")
	}
	return buf.String()
}
