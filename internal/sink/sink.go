// Package sink provides optional terminal consumers that persist a
// pipeline's matched file contents to storage instead of only
// returning them in memory, alongside sink.Collect/sink.ForEach.
// FSSink and S3Sink are adapted from the teacher's PutFile sidecar
// write path (lode/file_writer.go, lode/client_s3.go), narrowed from
// Hive-partitioned dataset writes down to one object per Fop.
package sink

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/file-or-pattern/fop/fop"
)

// ErrNoContent is returned by Put when a Fop carries no Content to
// persist (e.g. it was filtered before ReadContent or Execute ran).
var ErrNoContent = errors.New("sink: fop has no content to write")

// Sink is the narrow-interface terminal consumer that persists one
// Fop's content per call. Pipeline callers drive it themselves (unlike
// sink.Collect/sink.ForEach, a Sink has no opinion on how the upstream
// channel is drained); the recipe.Pipeline output is pulled by the
// caller's own loop and each Fop handed to Put.
type Sink interface {
	// Put persists f's content, keyed by its resolved Filename (or
	// FileOrPattern if Filename is unset). Returns ErrNoContent if f
	// has no Content.
	Put(ctx context.Context, f fop.Fop) error
	// Close releases sink resources.
	Close() error
}

func contentBytes(f fop.Fop) ([]byte, error) {
	if f.Content == nil {
		return nil, ErrNoContent
	}
	if f.Content.IsText {
		return []byte(f.Content.Text), nil
	}
	return f.Content.Bytes, nil
}

func keyFor(f fop.Fop) string {
	name := f.FileOrPattern
	if f.Filename != nil {
		name = *f.Filename
	}
	return sanitizeKey(name)
}

// sanitizeKey strips leading path separators and ".." segments so a
// Fop's identity string can never escape the configured sink root.
func sanitizeKey(name string) string {
	name = path.Clean("/" + name)
	name = strings.TrimPrefix(name, "/")
	parts := strings.Split(name, "/")
	clean := parts[:0]
	for _, p := range parts {
		if p == "" || p == ".." {
			continue
		}
		clean = append(clean, p)
	}
	if len(clean) == 0 {
		return "fop"
	}
	return strings.Join(clean, "/")
}

// StubSink records Put calls for testing, matching the teacher's
// StubFileWriter pattern.
type StubSink struct {
	mu    sync.Mutex
	Puts  []StubPut
	Error error
}

// StubPut is one recorded Put call.
type StubPut struct {
	Key  string
	Data []byte
}

// NewStubSink creates an empty StubSink.
func NewStubSink() *StubSink {
	return &StubSink{}
}

// Put implements Sink by recording the call, or returning the
// configured Error if one is set.
func (s *StubSink) Put(_ context.Context, f fop.Fop) error {
	if s.Error != nil {
		return s.Error
	}
	data, err := contentBytes(f)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Puts = append(s.Puts, StubPut{Key: keyFor(f), Data: data})
	return nil
}

// Close implements Sink.
func (s *StubSink) Close() error { return nil }

var _ Sink = (*StubSink)(nil)

// DrainInto pulls every Fop from out until it closes, calling
// s.Put(ctx, f) for each one that carries Content and skipping (not
// failing) those that don't — a sink only persists what a pipeline
// actually produced content for. The first Put error aborts the drain
// and is returned alongside the count of fops successfully written.
func DrainInto(ctx context.Context, out <-chan fop.Fop, s Sink) (int, error) {
	written := 0
	for f := range out {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		err := s.Put(ctx, f)
		if errors.Is(err, ErrNoContent) {
			continue
		}
		if err != nil {
			return written, fmt.Errorf("sink: put %q: %w", keyFor(f), err)
		}
		written++
	}
	return written, nil
}
