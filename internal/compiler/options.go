// Copyright 2021 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package compiler

import (
	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.opencensus.io/trace"
)

// Option configures a new Compiler.
type Option func(*Compiler) error

// EmitAst instructs the Compiler to log the syntax tree before checking.
func EmitAst() Option {
	return func(c *Compiler) error {
		c.emitAst = true
		return nil
	}
}

// EmitAstTypes instructs the Compiler to log the syntax tree after checking,
// with types and resolved symbols.
func EmitAstTypes() Option {
	return func(c *Compiler) error {
		c.emitAstTypes = true
		return nil
	}
}

// CollectAllErrors makes the checker report every diagnostic instead of
// stopping at the first.
func CollectAllErrors() Option {
	return func(c *Compiler) error {
		c.collectAll = true
		return nil
	}
}

// StrictInitializers rejects scalar initializers whose type differs from the
// declared type.
func StrictInitializers() Option {
	return func(c *Compiler) error {
		c.strictInit = true
		return nil
	}
}

// MaxRecursionDepth sets the maximum depth the syntax tree may have.
func MaxRecursionDepth(maxRecursionDepth int) Option {
	return func(c *Compiler) error {
		if maxRecursionDepth <= 0 {
			return errors.Errorf("invalid maximum recursion depth %d", maxRecursionDepth)
		}
		c.maxRecursionDepth = maxRecursionDepth
		return nil
	}
}

// Filesystem sets the filesystem that CheckFile reads from.
func Filesystem(fs afero.Fs) Option {
	return func(c *Compiler) error {
		c.fs = fs
		return nil
	}
}

// PrometheusRegisterer passes in a registry for setting up exported metrics.
func PrometheusRegisterer(reg prometheus.Registerer) Option {
	return func(c *Compiler) error {
		c.reg = reg
		c.reg.MustRegister(checksTotal, checkErrorsTotal)
		return nil
	}
}

// JaegerReporter creates a new jaeger reporter that sends check spans to the
// given Jaeger collector endpoint.
func JaegerReporter(endpoint string) Option {
	return func(c *Compiler) error {
		je, err := jaeger.NewExporter(jaeger.Options{
			CollectorEndpoint: endpoint,
			Process: jaeger.Process{
				ServiceName: "minicheck",
			},
		})
		if err != nil {
			return errors.Wrapf(err, "failed to create jaeger exporter for %q", endpoint)
		}
		trace.RegisterExporter(je)
		c.exporter = je
		return nil
	}
}
