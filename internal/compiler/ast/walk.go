// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package ast

import (
	"fmt"

	"github.com/golang/glog"
)

// Visitor VisitBefore method is invoked for each node encountered by Walk.
// If the result Visitor v is not nil, Walk visits each of the children of that
// node with v.  VisitAfter is called on n at the end.
type Visitor interface {
	VisitBefore(n Node) Visitor
	VisitAfter(n Node)
}

// Walk traverses (walks) an AST node with the provided Visitor v, children in
// source order.
func Walk(v Visitor, node Node) {
	glog.V(2).Infof("About to VisitBefore node %T at %s", node, node.Pos())
	// Returning nil from VisitBefore signals to Walk that the Visitor has
	// handled the children of this node.  VisitAfter will not be called.
	if v = v.VisitBefore(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *CompUnit:
		walknodelist(v, n.Units)

	case *Decl:
		Walk(v, n.Decl)

	case *FuncDef:
		for _, p := range n.Params {
			Walk(v, p)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}

	case *FuncParam:
		for _, d := range n.Dims {
			Walk(v, d)
		}

	case *VarDecl:
		for _, d := range n.Defs {
			Walk(v, d)
		}

	case *VarDef:
		if n.Init != nil {
			Walk(v, n.Init)
		}

	case *ArrDecl:
		for _, d := range n.Defs {
			Walk(v, d)
		}

	case *ArrDef:
		for _, d := range n.Dims {
			Walk(v, d)
		}
		if n.Init != nil {
			Walk(v, n.Init)
		}

	case *InitList:
		walknodelist(v, n.Entries)

	case *Block:
		walknodelist(v, n.Stmts)

	case *AssignStmt:
		Walk(v, n.Target)
		Walk(v, n.Expr)

	case *ReturnStmt:
		if n.Expr != nil {
			Walk(v, n.Expr)
		}

	case *IfStmt:
		Walk(v, n.Cond)
		Walk(v, n.Then)
		if n.Else != nil {
			Walk(v, n.Else)
		}

	case *WhileStmt:
		Walk(v, n.Cond)
		Walk(v, n.Body)

	case *LVal:
		walknodelist(v, n.Index)

	case *FuncCall:
		walknodelist(v, n.Args)

	case *UnaryExp:
		Walk(v, n.Expr)

	case *BinaryExp:
		Walk(v, n.LHS)
		Walk(v, n.RHS)

	case *NullStmt, *IntConst:
		// These nodes are terminals, thus have no children to walk.

	default:
		panic(fmt.Sprintf("Walk: unexpected node type %T: %v", n, n))
	}

	glog.V(2).Infof("About to VisitAfter node %T at %s", node, node.Pos())
	v.VisitAfter(node)
}

// convenience function.
func walknodelist(v Visitor, list []Node) {
	for _, x := range list {
		Walk(v, x)
	}
}
