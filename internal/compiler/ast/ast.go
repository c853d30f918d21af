// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package ast defines the syntax tree handed to the checker by the parser.
// The set of node kinds is closed; every node carries a source position and
// a type annotation filled in by the checker.
package ast

import (
	"fmt"

	"github.com/minic-lang/minic/internal/compiler/position"
	"github.com/minic-lang/minic/internal/compiler/symbol"
	"github.com/minic-lang/minic/internal/compiler/types"
)

type Node interface {
	Pos() *position.Position // Returns the position of the node from the original source
	Type() types.Type        // Returns the type annotation of this node, nil before checking
	SetType(types.Type)

	node()
}

// typed holds the annotation common to every node.
type typed struct {
	typ types.Type
}

func (t *typed) Type() types.Type {
	return t.typ
}

func (t *typed) SetType(typ types.Type) {
	t.typ = typ
}

func (t *typed) node() {}

// Op is a unary or binary operator.
type Op int

const (
	Add Op = iota
	Sub
	Not
	Mul
	Div
	Mod
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	And
	Or
)

var opNames = [...]string{
	Add: "+",
	Sub: "-",
	Not: "!",
	Mul: "*",
	Div: "/",
	Mod: "%",
	Lt:  "<",
	Le:  "<=",
	Gt:  ">",
	Ge:  ">=",
	Eq:  "==",
	Ne:  "!=",
	And: "&&",
	Or:  "||",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// ParseOp returns the operator spelled s.
func ParseOp(s string) (Op, bool) {
	for i, n := range opNames {
		if n == s {
			return Op(i), true
		}
	}
	return 0, false
}

// CompUnit is a whole program: a sequence of declarations and function definitions.
type CompUnit struct {
	typed
	Units []Node
}

func (n *CompUnit) Pos() *position.Position {
	return mergepositionlist(n.Units)
}

// Decl wraps a single VarDecl or ArrDecl.
type Decl struct {
	typed
	P    position.Position
	Decl Node
}

func (n *Decl) Pos() *position.Position {
	return &n.P
}

// FuncDef is a function definition.
type FuncDef struct {
	typed
	P      position.Position
	Return types.Basic
	Name   string
	Params []*FuncParam
	Body   *Block
	Symbol *symbol.Symbol
	Scope  symbol.ScopeID // scope holding the parameters and the body's declarations
}

func (n *FuncDef) Pos() *position.Position {
	return &n.P
}

// FuncParam is one formal parameter.  Array parameters list their declared
// dimensions.
type FuncParam struct {
	typed
	P       position.Position
	Basic   types.Basic
	Name    string
	IsArray bool
	Dims    []*IntConst
	Symbol  *symbol.Symbol
}

func (n *FuncParam) Pos() *position.Position {
	return &n.P
}

// VarDecl declares one or more scalars sharing a base type.
type VarDecl struct {
	typed
	P     position.Position
	Basic types.Basic
	Defs  []*VarDef
}

func (n *VarDecl) Pos() *position.Position {
	return &n.P
}

// VarDef is a single scalar definition with an optional initializer.
type VarDef struct {
	typed
	P      position.Position
	Name   string
	Init   Node // nil if absent
	Symbol *symbol.Symbol
}

func (n *VarDef) Pos() *position.Position {
	return &n.P
}

// ArrDecl declares one or more arrays sharing an element type.
type ArrDecl struct {
	typed
	P     position.Position
	Basic types.Basic
	Defs  []*ArrDef
}

func (n *ArrDecl) Pos() *position.Position {
	return &n.P
}

// ArrDef is a single array definition.  Dims are literal, outer to inner.
type ArrDef struct {
	typed
	P      position.Position
	Name   string
	Dims   []*IntConst
	Init   Node // nil if absent; must be an *InitList when present
	Symbol *symbol.Symbol
}

func (n *ArrDef) Pos() *position.Position {
	return &n.P
}

// InitList is a braced initializer.  Each entry is an expression or a nested InitList.
type InitList struct {
	typed
	P       position.Position
	Entries []Node
}

func (n *InitList) Pos() *position.Position {
	return &n.P
}

type Block struct {
	typed
	P     position.Position
	Stmts []Node
	Scope symbol.ScopeID // Handle of the scope for this block
}

func (n *Block) Pos() *position.Position {
	return &n.P
}

type AssignStmt struct {
	typed
	P      position.Position
	Target *LVal
	Expr   Node
}

func (n *AssignStmt) Pos() *position.Position {
	return &n.P
}

type ReturnStmt struct {
	typed
	P    position.Position
	Expr Node // nil for a bare return
}

func (n *ReturnStmt) Pos() *position.Position {
	return &n.P
}

type IfStmt struct {
	typed
	P    position.Position
	Cond Node
	Then Node
	Else Node // optional
}

func (n *IfStmt) Pos() *position.Position {
	return &n.P
}

type WhileStmt struct {
	typed
	P    position.Position
	Cond Node
	Body Node
}

func (n *WhileStmt) Pos() *position.Position {
	return &n.P
}

type NullStmt struct {
	typed
	P position.Position
}

func (n *NullStmt) Pos() *position.Position {
	return &n.P
}

// LVal is a reference to a variable or an (partially) indexed array.
type LVal struct {
	typed
	P      position.Position
	Name   string
	Index  []Node
	Symbol *symbol.Symbol
}

func (n *LVal) Pos() *position.Position {
	return &n.P
}

type IntConst struct {
	typed
	P     position.Position
	Value int64
}

func (n *IntConst) Pos() *position.Position {
	return &n.P
}

type FuncCall struct {
	typed
	P      position.Position
	Name   string
	Args   []Node
	Symbol *symbol.Symbol
}

func (n *FuncCall) Pos() *position.Position {
	return &n.P
}

type UnaryExp struct {
	typed
	P    position.Position // pos is the position of the op
	Op   Op
	Expr Node
}

func (n *UnaryExp) Pos() *position.Position {
	return &n.P
}

type BinaryExp struct {
	typed
	P        position.Position
	Op       Op
	LHS, RHS Node
}

func (n *BinaryExp) Pos() *position.Position {
	return &n.P
}

// mergepositionlist is a helper that merges the positions of all the nodes in a list
func mergepositionlist(l []Node) *position.Position {
	if len(l) == 0 {
		return nil
	}
	if len(l) == 1 {
		if l[0] != nil {
			return l[0].Pos()
		}
		return nil
	}
	return position.Merge(l[0].Pos(), mergepositionlist(l[1:]))
}
