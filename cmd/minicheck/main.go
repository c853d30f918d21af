// Copyright 2018 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

/*
Command minicheck performs the semantic check of programs.

Each argument names a syntax tree in the JSON interchange format written by
the parser.  Diagnostics are printed to standard error, and the exit status
is 1 if any program failed to check.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/minic-lang/minic/internal/compiler"
	"github.com/minic-lang/minic/internal/watcher"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
	"github.com/spf13/afero"
	"go.opencensus.io/trace"
)

var (
	collectErrors     = flag.Bool("collect_errors", false, "Report every diagnostic in a program instead of stopping at the first.")
	dumpAst           = flag.Bool("dump_ast", false, "Dump AST of programs before checking (to INFO log).")
	dumpAstTypes      = flag.Bool("dump_ast_types", false, "Dump AST of programs with type annotation after checking (to INFO log).")
	strictInit        = flag.Bool("strict_initializers", false, "Reject scalar initializers whose type differs from the declared type.")
	maxRecursionDepth = flag.Int("max_recursion_depth", 1000, "The maximum nesting depth of a program's syntax tree.")
	metricsFile       = flag.String("metrics_file", "", "If set, write check metrics to this file in the Prometheus text format before exiting.")
	watch             = flag.Bool("watch", false, "After the first check, keep running and check each program again whenever its file changes.")

	// Tracing.
	jaegerEndpoint    = flag.String("jaeger_endpoint", "", "If set, collector endpoint URL of jaeger thrift service")
	traceSamplePeriod = flag.Int("trace_sample_period", 0, "Sample period for traces.  If non-zero, every nth trace will be sampled.")

	showVersion = flag.Bool("version", false, "Print minicheck version information.")
)

var (
	// Branch as well as Version and Revision identifies where in the git
	// history the build came from, as supplied by the linker.
	Branch   = "invalid:-use-make-to-build"
	Version  = "invalid:-use-make-to-build"
	Revision = "invalid:-use-make-to-build"
)

// run checks each program in paths, printing diagnostics to w, and returns
// the process exit status.
func run(ctx context.Context, c *compiler.Compiler, paths []string, w io.Writer) int {
	status := 0
	for _, path := range paths {
		if _, err := c.CheckFile(ctx, path); err != nil {
			fmt.Fprintln(w, err)
			status = 1
			continue
		}
		glog.Infof("%s: OK", path)
	}
	return status
}

func main() {
	version.Branch = Branch
	version.Version = Version
	version.Revision = Revision

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", version.Print("minicheck"))
		fmt.Fprintf(os.Stderr, "\nUsage: %s [flags] FILE...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(version.Print("minicheck"))
		os.Exit(0)
	}
	glog.Info(version.Info())
	glog.Infof("Commandline: %q", os.Args)
	if flag.NArg() == 0 {
		flag.Usage()
		glog.Exitf("No programs given")
	}
	if *traceSamplePeriod > 0 {
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(1 / float64(*traceSamplePeriod))})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(version.NewCollector("minicheck"))
	opts := []compiler.Option{
		compiler.MaxRecursionDepth(*maxRecursionDepth),
		compiler.PrometheusRegisterer(reg),
	}
	if *collectErrors {
		opts = append(opts, compiler.CollectAllErrors())
	}
	if *dumpAst {
		opts = append(opts, compiler.EmitAst())
	}
	if *dumpAstTypes {
		opts = append(opts, compiler.EmitAstTypes())
	}
	if *strictInit {
		opts = append(opts, compiler.StrictInitializers())
	}
	if *jaegerEndpoint != "" {
		opts = append(opts, compiler.JaegerReporter(*jaegerEndpoint))
	}
	c, err := compiler.New(opts...)
	if err != nil {
		glog.Exit(err)
	}

	var status int
	if *watch {
		w, err := watcher.NewFileWatcher()
		if err != nil {
			glog.Exit(err)
		}
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		done := make(chan struct{})
		go func() {
			<-sigint
			glog.Info("Received SIGTERM, exiting...")
			close(done)
		}()
		status, err = watchPrograms(context.Background(), c, w, afero.NewOsFs(), flag.Args(), os.Stderr, done)
		if err != nil {
			glog.Exit(err)
		}
	} else {
		status = run(context.Background(), c, flag.Args(), os.Stderr)
	}
	if *metricsFile != "" {
		if err := prometheus.WriteToTextfile(*metricsFile, reg); err != nil {
			glog.Error(err)
		}
	}
	c.Close()
	glog.Flush()
	os.Exit(status)
}

// watchPrograms checks each program in paths, then checks programs again as
// w reports changes until done is closed.  The returned exit status is that
// of the first pass.
func watchPrograms(ctx context.Context, c *compiler.Compiler, w watcher.Watcher, fs afero.Fs, paths []string, out io.Writer, done <-chan struct{}) (int, error) {
	status := run(ctx, c, paths, out)
	r := newRechecker(c, fs, out)
	for _, path := range paths {
		if err := w.Observe(path, r); err != nil {
			return status, err
		}
	}
	glog.Infof("Watching %d programs", len(paths))
	<-done
	return status, w.Close()
}
