// Package fopmetrics provides per-run metrics collection for a
// pipeline invocation. Collector is a leaf package with no dependency
// on fop/pipeline/stage: callers (cmd/fop, once per output Fop) report
// into it by Kind and stage name strings only.
package fopmetrics

import "sync"

// Snapshot is an immutable point-in-time view of a run's metrics.
// Returned by Collector.Snapshot. Safe to read concurrently after
// creation.
type Snapshot struct {
	FopsSeen      int64
	FopsResolved  int64
	FopsMatched   int64
	FopsErrored   int64
	FopsGuarded   int64
	ErrorsByKind  map[string]int64
	ErrorsByStage map[string]int64

	ScanCalls     int64
	ExecuteCalls  int64
	ExecuteFailed int64

	Recipe string
	RunID  string
}

// Collector accumulates metrics during a single pipeline run.
// Thread-safe via sync.Mutex. Every increment method is nil-receiver
// safe so a pipeline can be run with a nil *Collector when metrics
// aren't wanted.
type Collector struct {
	mu sync.Mutex

	fopsSeen     int64
	fopsResolved int64
	fopsMatched  int64
	fopsErrored  int64
	fopsGuarded  int64

	errorsByKind  map[string]int64
	errorsByStage map[string]int64

	scanCalls     int64
	executeCalls  int64
	executeFailed int64

	recipe string
	runID  string
}

// NewCollector creates a Collector labeled with the recipe name and run
// ID it is accumulating metrics for.
func NewCollector(recipe, runID string) *Collector {
	return &Collector{
		errorsByKind:  make(map[string]int64),
		errorsByStage: make(map[string]int64),
		recipe:        recipe,
		runID:         runID,
	}
}

// IncSeen records a Fop entering the pipeline.
func (c *Collector) IncSeen() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.fopsSeen++
	c.mu.Unlock()
}

// IncResolved records CheckExist or Glob resolving a Fop to a concrete
// Filename.
func (c *Collector) IncResolved() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.fopsResolved++
	c.mu.Unlock()
}

// IncMatched records one fan-out sibling produced by Glob.
func (c *Collector) IncMatched() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.fopsMatched++
	c.mu.Unlock()
}

// IncErrored records a Fop that picked up a StageError, tagged by its
// Kind and originating stage.
func (c *Collector) IncErrored(kind, stage string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.fopsErrored++
	c.errorsByKind[kind]++
	c.errorsByStage[stage]++
	c.mu.Unlock()
}

// IncGuarded records Guard dropping an errored Fop (non-fail-fast mode).
func (c *Collector) IncGuarded() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.fopsGuarded++
	c.mu.Unlock()
}

// IncScanCall records one Glob directory traversal.
func (c *Collector) IncScanCall() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.scanCalls++
	c.mu.Unlock()
}

// IncExecuteCall records one Execute subprocess invocation, and whether
// it failed.
func (c *Collector) IncExecuteCall(failed bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.executeCalls++
	if failed {
		c.executeFailed++
	}
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	byKind := make(map[string]int64, len(c.errorsByKind))
	for k, v := range c.errorsByKind {
		byKind[k] = v
	}
	byStage := make(map[string]int64, len(c.errorsByStage))
	for k, v := range c.errorsByStage {
		byStage[k] = v
	}

	return Snapshot{
		FopsSeen:      c.fopsSeen,
		FopsResolved:  c.fopsResolved,
		FopsMatched:   c.fopsMatched,
		FopsErrored:   c.fopsErrored,
		FopsGuarded:   c.fopsGuarded,
		ErrorsByKind:  byKind,
		ErrorsByStage: byStage,
		ScanCalls:     c.scanCalls,
		ExecuteCalls:  c.executeCalls,
		ExecuteFailed: c.executeFailed,
		Recipe:        c.recipe,
		RunID:         c.runID,
	}
}
