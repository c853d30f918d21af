// Copyright 2018 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package ast

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/minic-lang/minic/internal/compiler/position"
	"github.com/minic-lang/minic/internal/compiler/types"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonNode is the interchange form of every node kind.  Only the fields
// relevant to Kind are read.
type jsonNode struct {
	Kind  string `json:"kind"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
	Name  string `json:"name,omitempty"`
	Basic string `json:"type,omitempty"`
	Value int64  `json:"value,omitempty"`
	Op    string `json:"op,omitempty"`
	Array bool   `json:"array,omitempty"`

	Units   []*jsonNode `json:"units,omitempty"`
	Params  []*jsonNode `json:"params,omitempty"`
	Defs    []*jsonNode `json:"defs,omitempty"`
	Dims    []*jsonNode `json:"dims,omitempty"`
	Entries []*jsonNode `json:"entries,omitempty"`
	Stmts   []*jsonNode `json:"stmts,omitempty"`
	Index   []*jsonNode `json:"index,omitempty"`
	Args    []*jsonNode `json:"args,omitempty"`

	Decl   *jsonNode `json:"decl,omitempty"`
	Body   *jsonNode `json:"body,omitempty"`
	Init   *jsonNode `json:"init,omitempty"`
	Target *jsonNode `json:"target,omitempty"`
	Expr   *jsonNode `json:"expr,omitempty"`
	Cond   *jsonNode `json:"cond,omitempty"`
	Then   *jsonNode `json:"then,omitempty"`
	Else   *jsonNode `json:"else,omitempty"`
	LHS    *jsonNode `json:"lhs,omitempty"`
	RHS    *jsonNode `json:"rhs,omitempty"`
}

// Decode reads a JSON encoded syntax tree produced by the parser.  name is
// used as the filename in node positions.
func Decode(name string, r io.Reader) (Node, error) {
	var root jsonNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, errors.Wrapf(err, "failed to decode syntax tree %q", name)
	}
	d := &decoder{name: name}
	n := d.node(&root)
	if d.err != nil {
		return nil, d.err
	}
	return n, nil
}

type decoder struct {
	name string
	err  error
}

func (d *decoder) errorf(j *jsonNode, format string, args ...interface{}) {
	if d.err == nil {
		d.err = errors.Wrapf(errors.Errorf(format, args...), "%s", d.pos(j))
	}
}

func (d *decoder) pos(j *jsonNode) position.Position {
	if j == nil {
		return position.Position{Filename: d.name}
	}
	return position.Position{Filename: d.name, Line: j.Line, Startcol: j.Col, Endcol: j.Col}
}

func (d *decoder) basic(j *jsonNode) types.Basic {
	switch j.Basic {
	case "int":
		return types.IntBasic
	case "void":
		return types.VoidBasic
	}
	d.errorf(j, "unknown base type %q in %s", j.Basic, j.Kind)
	return types.IntBasic
}

func (d *decoder) op(j *jsonNode) Op {
	op, ok := ParseOp(j.Op)
	if !ok {
		d.errorf(j, "unknown operator %q in %s", j.Op, j.Kind)
	}
	return op
}

func (d *decoder) require(parent *jsonNode, j *jsonNode, field string) *jsonNode {
	if j == nil {
		d.errorf(parent, "%s is missing %q", parent.Kind, field)
	}
	return j
}

func (d *decoder) list(l []*jsonNode) []Node {
	r := make([]Node, 0, len(l))
	for _, j := range l {
		r = append(r, d.node(j))
	}
	return r
}

func (d *decoder) optional(j *jsonNode) Node {
	if j == nil {
		return nil
	}
	return d.node(j)
}

// init decodes a declaration initializer, the only place an InitList may
// appear.
func (d *decoder) init(j *jsonNode) Node {
	if j == nil || j.Kind != "InitList" {
		return d.optional(j)
	}
	n := &InitList{P: d.pos(j), Entries: make([]Node, 0, len(j.Entries))}
	for _, e := range j.Entries {
		if e == nil {
			d.errorf(j, "unexpected null node")
			continue
		}
		n.Entries = append(n.Entries, d.init(e))
	}
	return n
}

func (d *decoder) dims(l []*jsonNode) []*IntConst {
	r := make([]*IntConst, 0, len(l))
	for _, j := range l {
		if j == nil || j.Kind != "IntConst" {
			d.errorf(j, "array dimension must be an integer literal")
			continue
		}
		r = append(r, &IntConst{P: d.pos(j), Value: j.Value})
	}
	return r
}

func (d *decoder) block(j *jsonNode) *Block {
	if j == nil {
		return nil
	}
	b, ok := d.node(j).(*Block)
	if !ok {
		d.errorf(j, "expected Block, got %s", j.Kind)
	}
	return b
}

func (d *decoder) lval(j *jsonNode) *LVal {
	if j == nil {
		return nil
	}
	l, ok := d.node(j).(*LVal)
	if !ok {
		d.errorf(j, "expected LVal, got %s", j.Kind)
	}
	return l
}

func (d *decoder) node(j *jsonNode) Node {
	if j == nil {
		d.errorf(nil, "unexpected null node")
		return &NullStmt{}
	}
	p := d.pos(j)
	switch j.Kind {
	case "CompUnit":
		return &CompUnit{Units: d.list(j.Units)}

	case "Decl":
		return &Decl{P: p, Decl: d.node(d.require(j, j.Decl, "decl"))}

	case "FuncDef":
		n := &FuncDef{P: p, Return: d.basic(j), Name: j.Name, Body: d.block(d.require(j, j.Body, "body"))}
		for _, pj := range j.Params {
			if fp, ok := d.node(pj).(*FuncParam); ok {
				n.Params = append(n.Params, fp)
			} else {
				d.errorf(pj, "expected FuncParam in params of %s", j.Name)
			}
		}
		return n

	case "FuncParam":
		return &FuncParam{P: p, Basic: d.basic(j), Name: j.Name, IsArray: j.Array || len(j.Dims) > 0, Dims: d.dims(j.Dims)}

	case "VarDecl":
		n := &VarDecl{P: p, Basic: d.basic(j)}
		for _, dj := range j.Defs {
			if vd, ok := d.node(dj).(*VarDef); ok {
				n.Defs = append(n.Defs, vd)
			} else {
				d.errorf(dj, "expected VarDef in VarDecl")
			}
		}
		return n

	case "VarDef":
		return &VarDef{P: p, Name: j.Name, Init: d.init(j.Init)}

	case "ArrDecl":
		n := &ArrDecl{P: p, Basic: d.basic(j)}
		for _, dj := range j.Defs {
			if ad, ok := d.node(dj).(*ArrDef); ok {
				n.Defs = append(n.Defs, ad)
			} else {
				d.errorf(dj, "expected ArrDef in ArrDecl")
			}
		}
		return n

	case "ArrDef":
		return &ArrDef{P: p, Name: j.Name, Dims: d.dims(j.Dims), Init: d.init(j.Init)}

	case "InitList":
		d.errorf(j, "initializer list outside of a declaration")
		return &InitList{P: p}

	case "Block":
		return &Block{P: p, Stmts: d.list(j.Stmts)}

	case "AssignStmt":
		return &AssignStmt{P: p, Target: d.lval(d.require(j, j.Target, "target")), Expr: d.node(d.require(j, j.Expr, "expr"))}

	case "ReturnStmt":
		return &ReturnStmt{P: p, Expr: d.optional(j.Expr)}

	case "IfStmt":
		return &IfStmt{P: p, Cond: d.node(d.require(j, j.Cond, "cond")), Then: d.node(d.require(j, j.Then, "then")), Else: d.optional(j.Else)}

	case "WhileStmt":
		return &WhileStmt{P: p, Cond: d.node(d.require(j, j.Cond, "cond")), Body: d.node(d.require(j, j.Body, "body"))}

	case "NullStmt":
		return &NullStmt{P: p}

	case "LVal":
		return &LVal{P: p, Name: j.Name, Index: d.list(j.Index)}

	case "IntConst":
		return &IntConst{P: p, Value: j.Value}

	case "FuncCall":
		return &FuncCall{P: p, Name: j.Name, Args: d.list(j.Args)}

	case "UnaryExp":
		return &UnaryExp{P: p, Op: d.op(j), Expr: d.node(d.require(j, j.Expr, "expr"))}

	case "BinaryExp":
		return &BinaryExp{P: p, Op: d.op(j), LHS: d.node(d.require(j, j.LHS, "lhs")), RHS: d.node(d.require(j, j.RHS, "rhs"))}
	}
	d.errorf(j, "unknown node kind %q", j.Kind)
	return &NullStmt{P: p}
}
