// Package processor defines the stage contract every FOP pipeline step
// implements: a stable name plus a per-item transform that expands one
// Fop into zero, one, or many.
package processor

import (
	"context"

	"github.com/file-or-pattern/fop/fop"
)

// Processor is the 1→N async transform every pipeline stage implements.
// ProcessOne must return a finite, already-materialized batch — never a
// channel or a lazily-produced sequence — so the combinator layer in
// package pipeline can schedule fan-out siblings without juggling
// partial results.
//
// Cardinality is uniform across every built-in stage: an empty result
// means the Fop was filtered out (Guard rejecting an errored Fop, Glob
// matching nothing), a single result is the common 1:1 enrichment, and
// more than one result is fan-out (Glob only).
//
// A non-nil error return is reserved for failures that end the whole
// pipeline (among the built-in stages, only a fail-fast Guard returns
// one). Recoverable, per-item failures are attached to the
// returned Fop's Err field instead, so the stream stays alive for other
// inputs; see fop.StageError.
//
// Implementations must be safe for concurrent ProcessOne calls — the
// pipeline package invokes it from multiple goroutines — and must treat
// their configuration as immutable after construction.
type Processor interface {
	Name() string
	ProcessOne(ctx context.Context, f fop.Fop) ([]fop.Fop, error)
}

// Func adapts a plain function to the Processor interface, the same
// shortcut net/http.HandlerFunc offers for http.Handler.
type Func struct {
	StageName string
	Fn        func(ctx context.Context, f fop.Fop) ([]fop.Fop, error)
}

func (p Func) Name() string { return p.StageName }

func (p Func) ProcessOne(ctx context.Context, f fop.Fop) ([]fop.Fop, error) {
	return p.Fn(ctx, f)
}
