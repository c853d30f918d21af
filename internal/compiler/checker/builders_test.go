// Copyright 2016 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package checker_test

import (
	"github.com/minic-lang/minic/internal/compiler/ast"
	"github.com/minic-lang/minic/internal/compiler/position"
	"github.com/minic-lang/minic/internal/compiler/types"
)

// Helpers for building syntax trees by hand.  Every node takes the source
// line it appears on so diagnostics can be matched against it.

func at(line int) position.Position {
	return position.Position{Filename: "prog", Line: line}
}

func prog(units ...ast.Node) *ast.CompUnit {
	return &ast.CompUnit{Units: units}
}

func intc(line int, v int64) *ast.IntConst {
	return &ast.IntConst{P: at(line), Value: v}
}

func ref(line int, name string, index ...ast.Node) *ast.LVal {
	return &ast.LVal{P: at(line), Name: name, Index: index}
}

func call(line int, name string, args ...ast.Node) *ast.FuncCall {
	return &ast.FuncCall{P: at(line), Name: name, Args: args}
}

func bin(line int, op ast.Op, lhs, rhs ast.Node) *ast.BinaryExp {
	return &ast.BinaryExp{P: at(line), Op: op, LHS: lhs, RHS: rhs}
}

func unary(line int, op ast.Op, e ast.Node) *ast.UnaryExp {
	return &ast.UnaryExp{P: at(line), Op: op, Expr: e}
}

func block(line int, stmts ...ast.Node) *ast.Block {
	return &ast.Block{P: at(line), Stmts: stmts}
}

func assign(line int, target *ast.LVal, e ast.Node) *ast.AssignStmt {
	return &ast.AssignStmt{P: at(line), Target: target, Expr: e}
}

func ret(line int, e ast.Node) *ast.ReturnStmt {
	return &ast.ReturnStmt{P: at(line), Expr: e}
}

func ifs(line int, cond, then, els ast.Node) *ast.IfStmt {
	return &ast.IfStmt{P: at(line), Cond: cond, Then: then, Else: els}
}

func while(line int, cond, body ast.Node) *ast.WhileStmt {
	return &ast.WhileStmt{P: at(line), Cond: cond, Body: body}
}

func param(line int, name string) *ast.FuncParam {
	return &ast.FuncParam{P: at(line), Basic: types.IntBasic, Name: name}
}

func arrParam(line int, name string, dims ...int64) *ast.FuncParam {
	p := param(line, name)
	p.IsArray = true
	for _, d := range dims {
		p.Dims = append(p.Dims, intc(line, d))
	}
	return p
}

func fn(line int, r types.Basic, name string, params []*ast.FuncParam, body *ast.Block) *ast.FuncDef {
	return &ast.FuncDef{P: at(line), Return: r, Name: name, Params: params, Body: body}
}

// vars declares int scalars; each def is a name, optionally followed by an initializer.
func vars(line int, defs ...*ast.VarDef) *ast.Decl {
	return &ast.Decl{P: at(line), Decl: &ast.VarDecl{P: at(line), Basic: types.IntBasic, Defs: defs}}
}

func vdef(line int, name string, init ast.Node) *ast.VarDef {
	return &ast.VarDef{P: at(line), Name: name, Init: init}
}

func arrays(line int, defs ...*ast.ArrDef) *ast.Decl {
	return &ast.Decl{P: at(line), Decl: &ast.ArrDecl{P: at(line), Basic: types.IntBasic, Defs: defs}}
}

func adef(line int, name string, dims []int64, init ast.Node) *ast.ArrDef {
	d := &ast.ArrDef{P: at(line), Name: name, Init: init}
	for _, v := range dims {
		d.Dims = append(d.Dims, intc(line, v))
	}
	return d
}

func list(line int, entries ...ast.Node) *ast.InitList {
	return &ast.InitList{P: at(line), Entries: entries}
}

// ints returns literal entries 1..n on one line.
func ints(line int, from, to int64) []ast.Node {
	var r []ast.Node
	for i := from; i <= to; i++ {
		r = append(r, intc(line, i))
	}
	return r
}

// mainWith wraps statements in `int main() { ... }`.
func mainWith(stmts ...ast.Node) *ast.FuncDef {
	return fn(1, types.IntBasic, "main", nil, block(1, stmts...))
}
