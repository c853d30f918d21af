// Copyright 2016 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package types implements the static type system: the int and void
// primitives, arrays of them, and function signatures.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the shape of a Type.
type Kind int

const (
	KindError Kind = iota
	KindPrimitive
	KindArray
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	}
	return "error"
}

// Type represents a type in the program.  Types are immutable once
// constructed and may be shared freely.
type Type interface {
	// Kind returns which shape this type has.
	Kind() Kind

	// String returns a string representation of a Type.
	String() string
}

// TypeError marks an expression whose type could not be determined because
// a diagnostic was already reported for it or one of its children.
type TypeError struct {
	error error
}

var ErrTypeUnknown = errors.New("type unknown")

func (e *TypeError) Kind() Kind {
	return KindError
}

func (e *TypeError) String() string {
	if e == nil || e.error == nil {
		return "type error"
	}
	return e.error.Error()
}

func (e *TypeError) Error() string {
	return e.String()
}

func (e *TypeError) Unwrap() error {
	return e.error
}

// AsTypeError behaves like `errors.As`, attempting to cast the type `t` into a
// provided `target` TypeError and returning if it was successful.
func AsTypeError(t Type, target **TypeError) (ok bool) {
	*target, ok = t.(*TypeError)
	return ok
}

// IsTypeError behaves like `errors.Is`, indicating that the type is a TypeError.
func IsTypeError(t Type) bool {
	var e *TypeError
	return AsTypeError(t, &e)
}

// Basic enumerates the primitive types of the language.
type Basic int

const (
	IntBasic Basic = iota
	VoidBasic
)

func (b Basic) String() string {
	switch b {
	case IntBasic:
		return "int"
	case VoidBasic:
		return "void"
	}
	return fmt.Sprintf("Basic(%d)", int(b))
}

// Primitive is a scalar type.
type Primitive struct {
	Basic Basic
}

func (t *Primitive) Kind() Kind {
	return KindPrimitive
}

func (t *Primitive) String() string {
	return t.Basic.String()
}

// Array is a fixed-size, possibly multidimensional array.  Dims are ordered
// outer to inner.
type Array struct {
	Elem Type
	Dims []int
}

func (t *Array) Kind() Kind {
	return KindArray
}

func (t *Array) String() string {
	var b strings.Builder
	b.WriteString(t.Elem.String())
	for _, d := range t.Dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	return b.String()
}

// Function is the signature of a callable.
type Function struct {
	Return Type
	Params []Type
}

func (t *Function) Kind() Kind {
	return KindFunction
}

func (t *Function) String() string {
	params := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		params = append(params, p.String())
	}
	return "(" + strings.Join(params, ", ") + ") -> " + t.Return.String()
}

// Builtin type constants.
var (
	Error = &TypeError{error: ErrTypeUnknown}
	Int   = &Primitive{IntBasic}
	Void  = &Primitive{VoidBasic}
)

// NewPrimitive returns the shared Primitive for b.
func NewPrimitive(b Basic) *Primitive {
	if b == VoidBasic {
		return Void
	}
	return Int
}

// NewArray constructs an array of elem with the given dimensions, outer to
// inner.  The dimension slice is copied.
func NewArray(elem Type, dims []int) *Array {
	return &Array{Elem: elem, Dims: append([]int(nil), dims...)}
}

// NewFunction constructs a function type.  The parameter slice is copied.
func NewFunction(ret Type, params ...Type) *Function {
	return &Function{Return: ret, Params: append([]Type{}, params...)}
}

// Builtins is a mapping of the builtin functions to their type definitions.
// The order of registration is fixed by BuiltinNames.
var Builtins = map[string]Type{
	"read":  NewFunction(Int),
	"write": NewFunction(Void, Int),
}

// BuiltinNames lists Builtins in registration order.
var BuiltinNames = []string{"read", "write"}

// IsInt reports whether t is the int primitive.
func IsInt(t Type) bool {
	return Equals(t, Int)
}

// IsArray reports whether t is an Array type.
func IsArray(t Type) bool {
	return t != nil && t.Kind() == KindArray
}

// IsFunction reports whether t is a Function type.
func IsFunction(t Type) bool {
	return t != nil && t.Kind() == KindFunction
}

// Equals compares two types structurally.  TypeErrors are never equal to
// anything, including themselves.
func Equals(t1, t2 Type) bool {
	if t1 == nil || t2 == nil {
		return t1 == nil && t2 == nil
	}
	switch a := t1.(type) {
	case *Primitive:
		b, ok := t2.(*Primitive)
		return ok && a.Basic == b.Basic
	case *Array:
		b, ok := t2.(*Array)
		if !ok || len(a.Dims) != len(b.Dims) {
			return false
		}
		for i := range a.Dims {
			if a.Dims[i] != b.Dims[i] {
				return false
			}
		}
		return Equals(a.Elem, b.Elem)
	case *Function:
		b, ok := t2.(*Function)
		if !ok || len(a.Params) != len(b.Params) {
			return false
		}
		if !Equals(a.Return, b.Return) {
			return false
		}
		for i := range a.Params {
			if !Equals(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}
