// Copyright 2016 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package position implements a data structure for storing source code positions.
package position

import "fmt"

// A Position is the location in the source program that a node appears.  It
// can specify a single character in the input, in which case the start and
// end columns are the same, or a span of sequential characters on one line.
// Lines and columns are 1-based as reported by the parser; zero means unknown.
type Position struct {
	Filename string // Source filename in which this node appears.
	Line     int    // Line in the source for this node.
	Startcol int    // Starting and ending columns in the source for this node.
	Endcol   int
}

// String formats a position to be useful for printing messages associated with
// this position, e.g. compiler errors.
func (p Position) String() string {
	r := fmt.Sprintf("%s:%d", p.Filename, p.Line)
	if p.Startcol > 0 {
		r += fmt.Sprintf(":%d", p.Startcol)
		if p.Endcol > p.Startcol {
			r += fmt.Sprintf("-%d", p.Endcol)
		}
	}
	return r
}

// Merge returns the union of two positions such that the result contains both inputs.
func Merge(a, b *Position) *Position {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Filename != b.Filename {
		return a
	}
	// Multi-line spans keep the first line only.
	if a.Line != b.Line {
		return a
	}
	r := *a
	if b.Startcol < r.Startcol {
		r.Startcol = b.Startcol
	}
	if b.Endcol > r.Endcol {
		r.Endcol = b.Endcol
	}
	return &r
}
