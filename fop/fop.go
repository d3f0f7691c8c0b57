// Package fop defines the Fop record: the envelope that accumulates
// filename resolution, pattern expansion, file contents, subprocess
// output, and timing data as it travels through a pipeline of stages.
package fop

import "fmt"

// Fop carries one file-or-pattern argument and everything the pipeline
// has learned about it so far. A Fop is a plain value: processors take
// one by value and return owned copies, never retaining the input after
// they return. FileOrPattern is set once at construction and never
// rewritten afterward; everything else is filled in stage by stage.
type Fop struct {
	// FileOrPattern is the original user-supplied string. Identity;
	// immutable for the lifetime of the Fop and every fop derived from
	// it by fan-out.
	FileOrPattern string

	// Filename is the concrete, existing path this Fop resolved to, set
	// by CheckExist or by Glob on a match. Nil until resolved.
	Filename *string

	// Executable is set to true by the Execute stage once it has run the
	// target as a subprocess. Nil when Execute did not run it.
	Executable *bool

	// Match identifies the pattern this Fop was produced from, shared
	// by every sibling fop that the same Glob expansion produced. Nil
	// for fops that did not come from pattern expansion.
	Match *MatchHandle

	// Content is the payload read by ReadContent or captured by
	// Execute. Nil until one of those stages runs successfully.
	Content *Content

	// Encoding tags Content when it holds decoded text ("utf8" or
	// "binary" for a decode fallback). Meaningless when Content is nil
	// or holds raw bytes with no decode attempted.
	Encoding *string

	// Timestamp holds one timing Record per stamped stage, keyed by
	// stamp name.
	Timestamp map[string]Record

	// Err is the first failure attached to this Fop. Once set it is
	// never overwritten or cleared by a later stage.
	Err *StageError
}

// Content is the union of bytes-or-text that ReadContent and Execute
// attach to a Fop. Exactly one of Bytes or Text is meaningful, selected
// by IsText.
type Content struct {
	IsText bool
	Text   string
	Bytes  []byte
}

// Len reports the size of whichever of Text or Bytes is populated.
func (c *Content) Len() int {
	if c == nil {
		return 0
	}
	if c.IsText {
		return len(c.Text)
	}
	return len(c.Bytes)
}

// Record is a single timing measurement attached by a Stamper.
type Record struct {
	Name       string
	StartedAt  int64 // unix nanoseconds
	DurationMs float64
}

// MatchHandle is the shared, immutable identity of a pattern expansion.
// Every fop produced by one Glob call on one pattern points at the same
// MatchHandle; none of them mutate it after Glob publishes it.
type MatchHandle struct {
	// ID correlates sibling fops in logs and metrics without requiring
	// every sibling to carry the full match list.
	ID string
	// Pattern is the original fileOrPattern the match came from.
	Pattern string
	// BaseDir is the non-wildcard directory prefix Glob decomposed the
	// pattern into.
	BaseDir string
}

// WithErr returns a copy of f with Err set, unless f already carries an
// error — per the err-monotonicity invariant, the first attached error
// wins and later stages must not overwrite it.
func (f Fop) WithErr(err *StageError) Fop {
	if f.Err != nil {
		return f
	}
	f.Err = err
	return f
}

// StampedTimestamp returns a copy of f with rec recorded under name in
// Timestamp, allocating the map on first use.
func (f Fop) StampedTimestamp(name string, rec Record) Fop {
	out := make(map[string]Record, len(f.Timestamp)+1)
	for k, v := range f.Timestamp {
		out[k] = v
	}
	out[name] = rec
	f.Timestamp = out
	return f
}

// String implements fmt.Stringer for debug logging.
func (f Fop) String() string {
	filename := "<unresolved>"
	if f.Filename != nil {
		filename = *f.Filename
	}
	return fmt.Sprintf("Fop{fileOrPattern=%q filename=%s err=%v}", f.FileOrPattern, filename, f.Err)
}
