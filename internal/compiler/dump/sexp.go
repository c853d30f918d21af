// Copyright 2017 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package dump renders syntax trees as s-expressions for debugging.
package dump

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/minic-lang/minic/internal/compiler/ast"
	"github.com/minic-lang/minic/internal/compiler/symbol"
)

// Sexp is for converting program syntax trees into typed s-expression for printing
type Sexp struct {
	output strings.Builder // Accumulator for the result

	EmitTypes   bool // Print the checked type of each node.
	EmitSymbols bool // Print the unique name of each resolved symbol.

	col  int // column to indent current line to
	line string
}

func (s *Sexp) indent() {
	s.col += 2
}

func (s *Sexp) outdent() {
	s.col -= 2
}

func (s *Sexp) emit(str string) {
	s.line += str
}

func (s *Sexp) newline() {
	if s.line != "" {
		s.output.WriteString(strings.Repeat(" ", s.col) + s.line)
	}
	s.output.WriteString("\n")
	s.line = ""
}

func (s *Sexp) symbol(sym *symbol.Symbol) {
	if s.EmitSymbols && sym != nil {
		s.emit(" => " + sym.UniqueName)
	}
}

// VisitBefore implements the ast.Visitor interface.
func (s *Sexp) VisitBefore(n ast.Node) ast.Visitor {
	s.emit(fmt.Sprintf("( ;;%T ", n))
	if s.EmitTypes {
		if t := n.Type(); t != nil {
			s.emit(fmt.Sprintf("<%s> ", t))
		} else {
			s.emit("<?> ")
		}
	}
	if p := n.Pos(); p != nil {
		s.emit(fmt.Sprintf("@ %s", p))
	}
	s.newline()
	s.indent()
	switch v := n.(type) {
	case *ast.FuncDef:
		s.emit(v.Return.String() + " " + v.Name)
		s.symbol(v.Symbol)

	case *ast.FuncParam:
		s.emit(v.Basic.String() + " " + v.Name)
		if v.IsArray {
			s.emit("[]")
		}
		s.symbol(v.Symbol)

	case *ast.VarDecl:
		s.emit(v.Basic.String())

	case *ast.ArrDecl:
		s.emit(v.Basic.String() + "[]")

	case *ast.VarDef:
		s.emit(v.Name)
		s.symbol(v.Symbol)

	case *ast.ArrDef:
		s.emit(v.Name)
		s.symbol(v.Symbol)

	case *ast.LVal:
		s.emit("\"" + v.Name + "\"")
		s.symbol(v.Symbol)

	case *ast.FuncCall:
		s.emit("\"" + v.Name + "\"")
		s.symbol(v.Symbol)

	case *ast.IntConst:
		s.emit(strconv.FormatInt(v.Value, 10))

	case *ast.UnaryExp:
		s.emit(v.Op.String())

	case *ast.BinaryExp:
		s.emit(v.Op.String())

	case *ast.AssignStmt:
		s.emit("=")

	case *ast.ReturnStmt:
		s.emit("return")

	case *ast.IfStmt:
		s.emit("if")

	case *ast.WhileStmt:
		s.emit("while")

	case *ast.CompUnit, *ast.Decl, *ast.InitList, *ast.Block, *ast.NullStmt: // normal walk

	default:
		panic(fmt.Sprintf("sexp found undefined type %T", n))
	}
	if s.line != "" {
		s.newline()
	}
	return s
}

// VisitAfter implements the ast.Visitor interface.
func (s *Sexp) VisitAfter(node ast.Node) {
	s.outdent()
	s.emit(")")
	s.newline()
}

// Dump begins the dumping of the syntax tree, returning the s-expression as a single string
func (s *Sexp) Dump(n ast.Node) string {
	ast.Walk(s, n)
	return s.output.String()
}
