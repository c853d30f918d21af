// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package compiler drives the semantic check of a program: it decodes the
// syntax tree handed over by the parser, checks it, and accounts for the
// outcome in the exported metrics.
package compiler

import (
	"context"
	goerrors "errors"
	"expvar"
	"io"
	"path/filepath"

	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/golang/glog"
	"github.com/minic-lang/minic/internal/compiler/ast"
	"github.com/minic-lang/minic/internal/compiler/checker"
	"github.com/minic-lang/minic/internal/compiler/dump"
	"github.com/minic-lang/minic/internal/compiler/errors"
	"github.com/minic-lang/minic/internal/compiler/symbol"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.opencensus.io/trace"
)

var (
	// Checks counts the number of programs checked, by program name.
	Checks = expvar.NewMap("checks_total")
	// CheckErrors counts the number of diagnostics reported, by kind.
	CheckErrors = expvar.NewMap("check_errors_total")

	checksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minic",
		Name:      "checks_total",
		Help:      "number of programs checked, by result",
	}, []string{"result"})
	checkErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minic",
		Name:      "check_errors_total",
		Help:      "number of diagnostics reported, by kind",
	}, []string{"kind"})
)

// Compiler checks programs with a fixed configuration.  A Compiler holds no
// state between programs and may be used from multiple goroutines.
type Compiler struct {
	fs       afero.Fs
	reg      prometheus.Registerer
	exporter *jaeger.Exporter

	emitAst           bool
	emitAstTypes      bool
	collectAll        bool
	strictInit        bool
	maxRecursionDepth int
}

// New creates a Compiler configured by opts.
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{fs: afero.NewOsFs()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Close flushes any spans still held by the trace exporter.
func (c *Compiler) Close() {
	if c.exporter != nil {
		c.exporter.Flush()
		trace.UnregisterExporter(c.exporter)
	}
}

// Result is a checked program.
type Result struct {
	Name  string
	Tree  ast.Node      // the annotated syntax tree
	Table *symbol.Table // all scopes created while checking
}

func (c *Compiler) checkerOptions() []checker.Option {
	var opts []checker.Option
	if c.collectAll {
		opts = append(opts, checker.CollectAll())
	}
	if c.strictInit {
		opts = append(opts, checker.StrictInitializers())
	}
	if c.maxRecursionDepth > 0 {
		opts = append(opts, checker.MaxRecursionDepth(c.maxRecursionDepth))
	}
	return opts
}

// Check decodes a syntax tree from input and checks it.  If the tree could be
// decoded, the Result is returned even when the program has errors, so that
// the annotated tree can still be inspected.
func (c *Compiler) Check(name string, input io.Reader) (*Result, error) {
	name = filepath.Base(name)

	tree, err := ast.Decode(name, input)
	if err != nil {
		checksTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if c.emitAst {
		s := dump.Sexp{}
		glog.Infof("%s AST:\n%s", name, s.Dump(tree))
	}

	Checks.Add(name, 1)
	table, err := checker.Check(tree, c.checkerOptions()...)
	if c.emitAstTypes {
		s := dump.Sexp{EmitTypes: true, EmitSymbols: true}
		glog.Infof("%s AST with Type Annotation:\n%s", name, s.Dump(tree))
	}
	res := &Result{Name: name, Tree: tree, Table: table}
	if err != nil {
		checksTotal.WithLabelValues("error").Inc()
		var el errors.ErrorList
		if goerrors.As(err, &el) {
			for _, k := range el.Kinds() {
				CheckErrors.Add(k.String(), 1)
				checkErrorsTotal.WithLabelValues(k.String()).Inc()
			}
		}
		return res, err
	}
	checksTotal.WithLabelValues("ok").Inc()
	glog.V(1).Infof("%s: check passed", name)
	return res, nil
}

// CheckFile reads and checks the syntax tree stored at path in the
// Compiler's filesystem.
func (c *Compiler) CheckFile(ctx context.Context, path string) (*Result, error) {
	_, span := trace.StartSpan(ctx, "Compiler.CheckFile")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("path", path))

	f, err := c.fs.Open(filepath.Clean(path))
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeNotFound, Message: err.Error()})
		return nil, pkgerrors.Wrapf(err, "failed to read program %q", path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			glog.Warning(err)
		}
	}()
	res, err := c.Check(path, f)
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeInvalidArgument, Message: err.Error()})
	}
	return res, err
}
