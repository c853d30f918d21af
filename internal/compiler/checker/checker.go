// Copyright 2016 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package checker implements scope resolution and type checking of a syntax
// tree, annotating every node with its type and every declaration and
// reference with its symbol.
package checker

import (
	"math"

	"github.com/golang/glog"
	"github.com/minic-lang/minic/internal/compiler/ast"
	"github.com/minic-lang/minic/internal/compiler/errors"
	"github.com/minic-lang/minic/internal/compiler/symbol"
	"github.com/minic-lang/minic/internal/compiler/types"
)

const defaultMaxRecursionDepth = 1000

// maxArraySize is the largest number of elements an array may hold.
const maxArraySize = math.MaxInt32

// Option configures a checker.
type Option func(*checker)

// CollectAll makes the checker continue after a diagnostic and report every
// error it can find.  By default checking stops at the first error.
func CollectAll() Option {
	return func(c *checker) {
		c.collectAll = true
	}
}

// MaxRecursionDepth limits how deeply nested the tree may be.
func MaxRecursionDepth(n int) Option {
	return func(c *checker) {
		if n > 0 {
			c.maxRecursionDepth = n
		}
	}
}

// StrictInitializers requires a scalar variable's initializer to have the
// declared type of the variable.
func StrictInitializers() Option {
	return func(c *checker) {
		c.strictInit = true
	}
}

// checker holds data for a semantic checker.
type checker struct {
	table   *symbol.Table
	retType types.Type // return type of the enclosing function, nil outside functions

	errors errors.ErrorList

	collectAll        bool
	strictInit        bool
	depth             int
	tooDeep           bool
	maxRecursionDepth int
}

func newChecker(opts ...Option) *checker {
	c := &checker{table: symbol.NewTable(), maxRecursionDepth: defaultMaxRecursionDepth}
	for _, opt := range opts {
		opt(c)
	}
	for _, name := range types.BuiltinNames {
		if _, err := c.table.Add(name, types.Builtins[name], nil); err != nil {
			glog.Fatalf("builtin %q: %s", name, err)
		}
	}
	return c
}

// Check performs a semantic check of node, annotating it in place.  It
// returns the symbol table built during the check and either a list of errors
// found, or nil if the program is semantically valid.  Each call starts from a
// fresh table, so no state is shared between programs.
func Check(node ast.Node, opts ...Option) (*symbol.Table, error) {
	c := newChecker(opts...)
	c.check(node)
	if len(c.errors) > 0 {
		return c.table, c.errors
	}
	return c.table, nil
}

// halted is true once no further checking should take place.
func (c *checker) halted() bool {
	return c.tooDeep || (!c.collectAll && len(c.errors) > 0)
}

func (c *checker) errorf(n ast.Node, kind errors.Kind, format string, args ...interface{}) types.Type {
	c.errors.Addf(n.Pos(), kind, format, args...)
	glog.V(2).Infof("%s: %s", kind, c.errors[len(c.errors)-1])
	return types.Error
}

// check dispatches on the kind of node, records the resulting type on the
// node, and returns it.
func (c *checker) check(node ast.Node) types.Type {
	if c.halted() {
		return types.Error
	}
	if node == nil {
		c.errors.Add(nil, errors.Internal, "internal error: missing node")
		return types.Error
	}
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.maxRecursionDepth {
		c.errorf(node, errors.Internal, "program exceeded maximum nesting depth of %d", c.maxRecursionDepth)
		c.tooDeep = true
		return types.Error
	}

	var t types.Type
	switch n := node.(type) {
	case *ast.CompUnit:
		t = c.checkCompUnit(n)
	case *ast.Decl:
		t = c.check(n.Decl)
	case *ast.FuncDef:
		t = c.checkFuncDef(n)
	case *ast.VarDecl:
		t = c.checkVarDecl(n)
	case *ast.ArrDecl:
		t = c.checkArrDecl(n)
	case *ast.InitList:
		// A braced scalar initializer.  Array initializers go through
		// checkArrDef, and Decode rejects lists anywhere else.
		t = c.checkInitList(nil, n, 0)
	case *ast.Block:
		t = c.checkBlock(n, true)
	case *ast.AssignStmt:
		t = c.checkAssignStmt(n)
	case *ast.ReturnStmt:
		t = c.checkReturnStmt(n)
	case *ast.IfStmt:
		t = c.checkIfStmt(n)
	case *ast.WhileStmt:
		t = c.checkWhileStmt(n)
	case *ast.NullStmt:
		t = types.Void
	case *ast.LVal:
		t = c.checkLVal(n)
	case *ast.IntConst:
		t = types.Int
	case *ast.FuncCall:
		t = c.checkFuncCall(n)
	case *ast.UnaryExp:
		t = c.checkUnaryExp(n)
	case *ast.BinaryExp:
		t = c.checkBinaryExp(n)
	default:
		// FuncParam, VarDef and ArrDef are only checked through their
		// enclosing declaration.
		return c.errorf(node, errors.Internal, "internal error: unexpected %T node in checker", node)
	}
	node.SetType(t)
	return t
}

func (c *checker) checkCompUnit(n *ast.CompUnit) types.Type {
	for _, unit := range n.Units {
		c.check(unit)
		if c.halted() {
			return types.Error
		}
	}
	return types.Void
}

func (c *checker) checkFuncDef(n *ast.FuncDef) types.Type {
	ret := types.NewPrimitive(n.Return)
	if alt := c.table.Find(n.Name, false); alt != nil {
		c.errorf(n, errors.DuplicateSymbol, "redefinition of `%s'%s", n.Name, previously(alt))
		if c.halted() {
			return types.Error
		}
	}

	params := make([]types.Type, 0, len(n.Params))
	for _, p := range n.Params {
		params = append(params, c.paramType(p))
	}
	if c.halted() {
		return types.Error
	}
	ft := types.NewFunction(ret, params...)

	if sym, err := c.table.Add(n.Name, ft, n.Pos()); err == nil {
		n.Symbol = sym
	}

	outer := c.retType
	c.retType = ret
	n.Scope = c.table.Enter()
	glog.V(2).Infof("Created scope %d for function %s", n.Scope, n.Name)
	for i, p := range n.Params {
		sym, err := c.table.Add(p.Name, params[i], p.Pos())
		if err != nil {
			c.errorf(p, errors.DuplicateSymbol, "redefinition of parameter `%s' of `%s'", p.Name, n.Name)
			if c.halted() {
				break
			}
			continue
		}
		p.Symbol = sym
		p.SetType(params[i])
	}
	if n.Body != nil {
		n.Body.SetType(c.checkBlock(n.Body, false))
	}
	c.table.Exit()
	c.retType = outer

	if c.halted() {
		return types.Error
	}
	return ft
}

// paramType returns the declared type of a parameter.  Array parameters keep
// their declared dimensions.
func (c *checker) paramType(p *ast.FuncParam) types.Type {
	elem := types.NewPrimitive(p.Basic)
	if !p.IsArray {
		return elem
	}
	dims, ok := c.dims(p, p.Name, p.Dims)
	if !ok {
		return types.Error
	}
	return types.NewArray(elem, dims)
}

// dims converts literal array dimensions to ints, annotating each literal.
func (c *checker) dims(n ast.Node, name string, lits []*ast.IntConst) ([]int, bool) {
	if len(lits) == 0 {
		c.errorf(n, errors.InvalidDimension, "array `%s' has no dimensions", name)
		return nil, false
	}
	dims := make([]int, 0, len(lits))
	ok := true
	size := int64(1)
	for i, l := range lits {
		l.SetType(types.Int)
		if l.Value <= 0 {
			c.errorf(l, errors.InvalidDimension, "dimension %d of array `%s' is %d; it must be positive", i+1, name, l.Value)
			ok = false
			continue
		}
		// size stays within maxArraySize, so the product cannot overflow.
		if size > 0 && (l.Value > maxArraySize || size*l.Value > maxArraySize) {
			c.errorf(l, errors.InvalidDimension, "size of array `%s' exceeds %d elements", name, maxArraySize)
			ok = false
			size = 0
			continue
		}
		if size > 0 {
			size *= l.Value
		}
		dims = append(dims, int(l.Value))
	}
	return dims, ok
}

func (c *checker) checkVarDecl(n *ast.VarDecl) types.Type {
	for _, def := range n.Defs {
		c.checkVarDef(def, n.Basic)
		if c.halted() {
			return types.Error
		}
	}
	return types.Void
}

func (c *checker) checkVarDef(n *ast.VarDef, basic types.Basic) {
	typ := types.NewPrimitive(basic)
	if alt := c.table.Find(n.Name, true); alt != nil {
		c.errorf(n, errors.DuplicateSymbol, "redefinition of `%s'%s", n.Name, previously(alt))
		return
	}
	sym, err := c.table.Add(n.Name, typ, n.Pos())
	if err != nil {
		c.errorf(n, errors.DuplicateSymbol, "%s", err)
		return
	}
	n.Symbol = sym
	n.SetType(typ)

	if n.Init == nil {
		return
	}
	it := c.check(n.Init)
	if types.IsTypeError(it) || types.Equals(it, typ) {
		return
	}
	if c.strictInit {
		c.errorf(n.Init, errors.TypeMismatch, "cannot initialize `%s' of type %s with a value of type %s", n.Name, typ, it)
		return
	}
	glog.V(1).Infof("%s: initializer of `%s' has type %s, declared %s", n.Pos(), n.Name, it, typ)
}

func (c *checker) checkArrDecl(n *ast.ArrDecl) types.Type {
	for _, def := range n.Defs {
		c.checkArrDef(def, n.Basic)
		if c.halted() {
			return types.Error
		}
	}
	return types.Void
}

func (c *checker) checkArrDef(n *ast.ArrDef, basic types.Basic) {
	if alt := c.table.Find(n.Name, true); alt != nil {
		c.errorf(n, errors.DuplicateSymbol, "redefinition of `%s'%s", n.Name, previously(alt))
		return
	}
	var typ types.Type = types.Error
	dims, ok := c.dims(n, n.Name, n.Dims)
	if ok {
		typ = types.NewArray(types.NewPrimitive(basic), dims)
	}
	sym, err := c.table.Add(n.Name, typ, n.Pos())
	if err != nil {
		c.errorf(n, errors.DuplicateSymbol, "%s", err)
		return
	}
	n.Symbol = sym
	n.SetType(typ)

	if !ok || n.Init == nil || c.halted() {
		return
	}
	list, isList := n.Init.(*ast.InitList)
	if !isList {
		if t := c.check(n.Init); !types.IsTypeError(t) {
			c.errorf(n.Init, errors.InitializerShape, "array `%s' must be initialized with an initializer list", n.Name)
		}
		return
	}
	// The initializer is validated innermost dimension first.
	rev := make([]int, len(dims))
	for i, d := range dims {
		rev[len(dims)-1-i] = d
	}
	list.SetType(c.checkInitList(rev, list, 0))
}

// checkInitList validates a braced initializer against dims, given innermost
// first, starting at element offset.  A nested list covers the largest
// sub-array that starts at the current element and fits the remaining
// dimensions; a scalar covers one element.
func (c *checker) checkInitList(dims []int, n *ast.InitList, offset int) types.Type {
	if len(dims) == 0 {
		if len(n.Entries) != 1 {
			return c.errorf(n, errors.InitializerShape, "excess elements in scalar initializer")
		}
		return c.checkInitScalar(n.Entries[0])
	}

	capacity := 1
	for _, d := range dims {
		capacity *= d
	}
	count := offset
	for _, entry := range n.Entries {
		if sub, ok := entry.(*ast.InitList); ok {
			span := 1
			i := 0
			for ; i < len(dims)-1; i++ {
				span *= dims[i]
				if count%span != 0 {
					break
				}
			}
			if i != len(dims)-1 {
				span /= dims[i]
			}
			sub.SetType(c.checkInitList(dims[:i], sub, count))
			count += span
		} else {
			count++
			if count-offset > capacity {
				return c.errorf(n, errors.InitializerShape, "excess elements in array initializer")
			}
			c.checkInitScalar(entry)
		}
		if c.halted() {
			return types.Error
		}
		if count-offset > capacity {
			return c.errorf(n, errors.InitializerShape, "excess elements in array initializer")
		}
	}

	outer := make([]int, len(dims))
	for i, d := range dims {
		outer[len(dims)-1-i] = d
	}
	return types.NewArray(types.Int, outer)
}

// checkInitScalar checks a single initializer element, which must be an int.
func (c *checker) checkInitScalar(entry ast.Node) types.Type {
	if sub, ok := entry.(*ast.InitList); ok {
		t := c.checkInitList(nil, sub, 0)
		sub.SetType(t)
		return t
	}
	t := c.check(entry)
	if types.IsTypeError(t) {
		return t
	}
	if !types.IsInt(t) {
		return c.errorf(entry, errors.TypeMismatch, "initializer element has type %s, expected int", t)
	}
	return types.Int
}

// checkBlock checks each statement in a block.  Function bodies share the
// scope of their parameters; every other block opens its own scope.
func (c *checker) checkBlock(n *ast.Block, newScope bool) types.Type {
	if newScope {
		n.Scope = c.table.Enter()
		defer c.table.Exit()
	} else {
		n.Scope = c.table.Current()
	}
	for _, stmt := range n.Stmts {
		c.check(stmt)
		if c.halted() {
			return types.Error
		}
	}
	return types.Void
}

func (c *checker) checkAssignStmt(n *ast.AssignStmt) types.Type {
	if n.Target == nil {
		return c.errorf(n, errors.Internal, "internal error: assignment without target")
	}
	lt := c.check(n.Target)
	et := c.check(n.Expr)
	if types.IsTypeError(lt) || types.IsTypeError(et) {
		return types.Error
	}
	if !types.IsInt(lt) || !types.IsInt(et) {
		return c.errorf(n, errors.TypeMismatch, "cannot assign a value of type %s to `%s' of type %s", et, n.Target.Name, lt)
	}
	return types.Void
}

func (c *checker) checkReturnStmt(n *ast.ReturnStmt) types.Type {
	var t types.Type = types.Void
	if n.Expr != nil {
		t = c.check(n.Expr)
	}
	if types.IsTypeError(t) {
		return t
	}
	if c.retType == nil {
		return c.errorf(n, errors.Internal, "internal error: return outside of a function")
	}
	if !types.Equals(t, c.retType) {
		return c.errorf(n, errors.TypeMismatch, "returning %s from a function declared to return %s", t, c.retType)
	}
	return types.Void
}

func (c *checker) checkIfStmt(n *ast.IfStmt) types.Type {
	ct := c.check(n.Cond)
	c.check(n.Then)
	if n.Else != nil {
		c.check(n.Else)
	}
	return c.checkCond(n.Cond, ct, "if")
}

func (c *checker) checkWhileStmt(n *ast.WhileStmt) types.Type {
	ct := c.check(n.Cond)
	c.check(n.Body)
	return c.checkCond(n.Cond, ct, "while")
}

// checkCond validates a condition's type after the statement's branches have
// been checked.
func (c *checker) checkCond(cond ast.Node, ct types.Type, stmt string) types.Type {
	if c.halted() || types.IsTypeError(ct) {
		return types.Error
	}
	if !types.IsInt(ct) {
		return c.errorf(cond, errors.TypeMismatch, "%s condition has type %s, expected int", stmt, ct)
	}
	return types.Void
}

func (c *checker) checkLVal(n *ast.LVal) types.Type {
	sym := c.table.Find(n.Name, false)
	if sym == nil {
		return c.errorf(n, errors.UndefinedSymbol, "identifier `%s' not declared", n.Name)
	}
	glog.V(2).Infof("Found %q as %v", n.Name, sym)
	sym.Used = true
	n.Symbol = sym
	if len(n.Index) == 0 || types.IsTypeError(sym.Type) {
		return sym.Type
	}

	if !types.IsArray(sym.Type) {
		return c.errorf(n, errors.NotAnArray, "`%s' of type %s is not an array", n.Name, sym.Type)
	}
	arr := sym.Type.(*types.Array)

	failed := false
	for i, idx := range n.Index {
		t := c.check(idx)
		if c.halted() {
			return types.Error
		}
		if types.IsTypeError(t) {
			failed = true
			continue
		}
		if !types.IsInt(t) {
			c.errorf(idx, errors.TypeMismatch, "index %d of `%s' has type %s, expected int", i+1, n.Name, t)
			if c.halted() {
				return types.Error
			}
			failed = true
		}
	}
	if failed {
		return types.Error
	}

	switch {
	case len(n.Index) > len(arr.Dims):
		return c.errorf(n, errors.TooManyIndices, "too many indices for `%s': %d given, %d dimensions", n.Name, len(n.Index), len(arr.Dims))
	case len(n.Index) == len(arr.Dims):
		return arr.Elem
	default:
		return types.NewArray(arr.Elem, arr.Dims[len(n.Index):])
	}
}

func (c *checker) checkFuncCall(n *ast.FuncCall) types.Type {
	sym := c.table.Find(n.Name, false)
	if sym == nil {
		return c.errorf(n, errors.UndefinedSymbol, "function `%s' not declared", n.Name)
	}
	ft, ok := sym.Type.(*types.Function)
	if !ok {
		if types.IsTypeError(sym.Type) {
			return types.Error
		}
		return c.errorf(n, errors.NotAFunction, "`%s' of type %s is not a function", n.Name, sym.Type)
	}
	sym.Used = true
	n.Symbol = sym
	if len(n.Args) != len(ft.Params) {
		return c.errorf(n, errors.ArityMismatch, "call to `%s' with %d arguments, expected %d", n.Name, len(n.Args), len(ft.Params))
	}

	failed := false
	for i, arg := range n.Args {
		at := c.check(arg)
		if c.halted() {
			return types.Error
		}
		if types.IsTypeError(at) || types.IsTypeError(ft.Params[i]) {
			failed = true
			continue
		}
		if !types.Equals(at, ft.Params[i]) {
			c.errorf(arg, errors.TypeMismatch, "argument %d of call to `%s' has type %s, expected %s", i+1, n.Name, at, ft.Params[i])
			if c.halted() {
				return types.Error
			}
			failed = true
		}
	}
	if failed {
		return types.Error
	}
	return ft.Return
}

func (c *checker) checkUnaryExp(n *ast.UnaryExp) types.Type {
	t := c.check(n.Expr)
	if types.IsTypeError(t) {
		return t
	}
	if !types.IsInt(t) {
		return c.errorf(n, errors.TypeMismatch, "operand of unary %s has type %s, expected int", n.Op, t)
	}
	return types.Int
}

func (c *checker) checkBinaryExp(n *ast.BinaryExp) types.Type {
	lt := c.check(n.LHS)
	rt := c.check(n.RHS)
	if types.IsTypeError(lt) || types.IsTypeError(rt) {
		return types.Error
	}
	if !types.IsInt(lt) || !types.IsInt(rt) {
		return c.errorf(n, errors.TypeMismatch, "invalid operands to %s: %s and %s", n.Op, lt, rt)
	}
	return types.Int
}

// previously formats where an earlier declaration of a name was made, if known.
func previously(sym *symbol.Symbol) string {
	if sym.Pos == nil {
		return ""
	}
	return " previously declared at " + sym.Pos.String()
}
