// Package recipe assembles FOP's built-in stages into complete
// pipelines: the simple read-only scan (recipe.Simple) and the
// bounded execute/glob/execute/read chain (recipe.ExecReadExecBounded)
// that shares one concurrency pool across every gated stage.
package recipe

import (
	"context"
	"sync"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopslog"
	"github.com/file-or-pattern/fop/pipeline"
	"github.com/file-or-pattern/fop/processor"
	"github.com/file-or-pattern/fop/stage"
	"github.com/file-or-pattern/fop/stamp"
)

// Pipeline runs a complete stage chain over in, returning the stream of
// resulting fops and a channel that carries at most one terminal error
// (from a fail-fast Guard or a stage's own ProcessOne failure).
type Pipeline func(ctx context.Context, in <-chan fop.Fop) (<-chan fop.Fop, <-chan error)

// step is one link in a stage chain: either unbounded (pool nil) or
// gated by a shared pipeline.Pool.
type step struct {
	proc    processor.Processor
	pool    *pipeline.Pool
	ordered bool
}

func chain(steps []step) Pipeline {
	return func(ctx context.Context, in <-chan fop.Fop) (<-chan fop.Fop, <-chan error) {
		cur := in
		errChans := make([]<-chan error, 0, len(steps))

		for _, s := range steps {
			var opts []pipeline.Option
			if s.ordered {
				opts = append(opts, pipeline.WithOrdered())
			}
			var out <-chan fop.Fop
			var errs <-chan error
			if s.pool != nil {
				out, errs = pipeline.BoundedApply(ctx, cur, s.proc, s.pool, opts...)
			} else {
				out, errs = pipeline.Apply(ctx, cur, s.proc, opts...)
			}
			cur = out
			errChans = append(errChans, errs)
		}

		return cur, mergeErrors(errChans)
	}
}

// mergeErrors fans multiple per-stage error channels into one, carrying
// only the first error reported by any stage.
func mergeErrors(chans []<-chan error) <-chan error {
	out := make(chan error, 1)
	if len(chans) == 0 {
		close(out)
		return out
	}

	var wg sync.WaitGroup
	wg.Add(len(chans))
	for _, c := range chans {
		go func(c <-chan error) {
			defer wg.Done()
			if err, ok := <-c; ok {
				select {
				case out <- err:
				default:
				}
			}
		}(c)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// SimpleConfig configures recipe.Simple.
type SimpleConfig struct {
	// GuardMode rejects fops with an empty FileOrPattern at Parse.
	GuardMode bool
	// AsText decodes ReadContent's output as UTF-8 text where possible.
	AsText bool
	// RecordEncoding tags the Encoding field when AsText is set.
	RecordEncoding bool
	// ScanPermits bounds Glob's concurrent directory traversals
	// (stage.DefaultScanPermits if non-positive).
	ScanPermits int
	// FailFast appends a fail-fast Guard that turns any errored fop into
	// a terminal pipeline error instead of passing it to the consumer.
	FailFast bool

	// Logger, when set, is attached to every stage for entry/exit and
	// error logging. Nil (the default) disables stage logging.
	Logger *fopslog.Logger
}

// Simple builds the canonical read-only scan pipeline: Parse,
// CheckExist, Glob, ReadContent. No stage is concurrency-gated; Glob's
// own scan permit pool is the only internal limit. No Guard is
// installed by default, so errored fops reach the terminal consumer
// interleaved with successful ones, per this spec's error-surfacing
// rules. Setting FailFast opts into a trailing Guard that aborts the
// whole run on the first errored fop instead.
func Simple(cfg SimpleConfig) Pipeline {
	steps := []step{
		{proc: stage.NewParse(cfg.GuardMode, stage.WithParseLogger(cfg.Logger))},
		{proc: stage.NewCheckExist(stage.WithCheckExistLogger(cfg.Logger))},
		{proc: stage.NewGlob(cfg.ScanPermits, stage.WithGlobLogger(cfg.Logger))},
		{proc: stage.NewReadContent(cfg.AsText, cfg.RecordEncoding, stage.WithReadContentLogger(cfg.Logger))},
	}
	if cfg.FailFast {
		steps = append(steps, step{proc: stage.NewGuard(true, stage.WithGuardLogger(cfg.Logger))})
	}
	return chain(steps)
}

// BoundedConfig configures recipe.ExecReadExecBounded.
type BoundedConfig struct {
	GuardMode      bool
	AsText         bool
	RecordEncoding bool
	ScanPermits    int
	FailFast       bool

	// Concurrency is the shared permit count every bounded stage in this
	// pipeline draws from (pipeline.Pool's capacity).
	Concurrency int

	// Stamper times each Execute call, when set.
	Stamper stamp.Stamper

	// Logger, when set, is attached to every stage for entry/exit and
	// error logging. Nil (the default) disables stage logging.
	Logger *fopslog.Logger
}

// ExecReadExecBounded builds the pipeline for fops that may themselves
// be executables producing further files-or-patterns: Parse, a first
// bounded Execute (treating the original argument as an optional
// generator), Glob, a second bounded Execute (running any matched
// executables), and a bounded ReadContent, all sharing a single
// pipeline.Pool so the total number of concurrently running subprocess
// or file-read operations across every stage never exceeds Concurrency.
func ExecReadExecBounded(cfg BoundedConfig) Pipeline {
	pool := pipeline.NewPool(cfg.Concurrency)

	execOpts := []stage.ExecuteOption{stage.WithExecuteLogger(cfg.Logger)}
	if cfg.Stamper != nil {
		execOpts = append(execOpts, stage.WithExecutionStamper(cfg.Stamper, "Execute"))
	}

	steps := []step{
		{proc: stage.NewParse(cfg.GuardMode, stage.WithParseLogger(cfg.Logger))},
		{proc: stage.NewExecute(false, cfg.AsText, execOpts...), pool: pool},
		{proc: stage.NewGlob(cfg.ScanPermits, stage.WithGlobLogger(cfg.Logger))},
		{proc: stage.NewExecute(false, cfg.AsText, execOpts...), pool: pool},
		{proc: stage.NewReadContent(cfg.AsText, cfg.RecordEncoding, stage.WithReadContentLogger(cfg.Logger)), pool: pool},
		{proc: stage.NewGuard(cfg.FailFast, stage.WithGuardLogger(cfg.Logger))},
	}
	return chain(steps)
}
