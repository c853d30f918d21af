// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package errors holds the diagnostics produced while checking a program.
package errors

import (
	goerrors "errors"
	"fmt"

	"github.com/minic-lang/minic/internal/compiler/position"
)

// Kind classifies a diagnostic.
type Kind int

const (
	Internal Kind = iota
	DuplicateSymbol
	UndefinedSymbol
	TypeMismatch
	ArityMismatch
	NotAFunction
	NotAnArray
	TooManyIndices
	InitializerShape
	InvalidDimension

	endKind
)

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrInternal         = goerrors.New("internal error")
	ErrDuplicateSymbol  = goerrors.New("duplicate symbol")
	ErrUndefinedSymbol  = goerrors.New("undefined symbol")
	ErrTypeMismatch     = goerrors.New("type mismatch")
	ErrArityMismatch    = goerrors.New("arity mismatch")
	ErrNotAFunction     = goerrors.New("not a function")
	ErrNotAnArray       = goerrors.New("not an array")
	ErrTooManyIndices   = goerrors.New("too many indices")
	ErrInitializerShape = goerrors.New("initializer shape error")
	ErrInvalidDimension = goerrors.New("invalid array dimension")
)

var sentinels = [...]error{
	Internal:         ErrInternal,
	DuplicateSymbol:  ErrDuplicateSymbol,
	UndefinedSymbol:  ErrUndefinedSymbol,
	TypeMismatch:     ErrTypeMismatch,
	ArityMismatch:    ErrArityMismatch,
	NotAFunction:     ErrNotAFunction,
	NotAnArray:       ErrNotAnArray,
	TooManyIndices:   ErrTooManyIndices,
	InitializerShape: ErrInitializerShape,
	InvalidDimension: ErrInvalidDimension,
}

// Err returns the sentinel error for this Kind.
func (k Kind) Err() error {
	if k < 0 || k >= endKind {
		return ErrInternal
	}
	return sentinels[k]
}

func (k Kind) String() string {
	switch k {
	case Internal:
		return "Internal"
	case DuplicateSymbol:
		return "DuplicateSymbol"
	case UndefinedSymbol:
		return "UndefinedSymbol"
	case TypeMismatch:
		return "TypeMismatch"
	case ArityMismatch:
		return "ArityMismatch"
	case NotAFunction:
		return "NotAFunction"
	case NotAnArray:
		return "NotAnArray"
	case TooManyIndices:
		return "TooManyIndices"
	case InitializerShape:
		return "InitializerShapeError"
	case InvalidDimension:
		return "InvalidDimension"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// A Diagnostic is a single positioned compile error.
type Diagnostic struct {
	Pos  position.Position
	Kind Kind
	Msg  string
}

func (e *Diagnostic) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Unwrap returns the sentinel error for the diagnostic's Kind.
func (e *Diagnostic) Unwrap() error {
	return e.Kind.Err()
}

// ErrorList contains a list of compile errors.
type ErrorList []*Diagnostic

// Add appends an error of the given kind at a position to the list of errors.
func (p *ErrorList) Add(pos *position.Position, kind Kind, msg string) {
	d := &Diagnostic{Kind: kind, Msg: msg}
	if pos != nil {
		d.Pos = *pos
	}
	*p = append(*p, d)
}

// Addf is Add with a format string.
func (p *ErrorList) Addf(pos *position.Position, kind Kind, format string, args ...interface{}) {
	p.Add(pos, kind, fmt.Sprintf(format, args...))
}

// Append puts an ErrorList on the end of this ErrorList.
func (p *ErrorList) Append(l ErrorList) {
	*p = append(*p, l...)
}

// ErrorList implements the error interface.
func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	var r string
	for _, e := range p {
		r += fmt.Sprintf("%s\n", e)
	}
	return r[:len(r)-1]
}

// Unwrap exposes every diagnostic to errors.Is and errors.As.
func (p ErrorList) Unwrap() []error {
	r := make([]error, 0, len(p))
	for _, e := range p {
		r = append(r, e)
	}
	return r
}

// Kinds returns the kind of each diagnostic in order.
func (p ErrorList) Kinds() []Kind {
	r := make([]Kind, 0, len(p))
	for _, e := range p {
		r = append(r, e.Kind)
	}
	return r
}
