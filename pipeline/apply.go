// Package pipeline lifts the 1→N processor.Processor contract into a
// whole-stream transform: Apply (unbounded) and BoundedApply (gated by a
// shared Pool of permits). Both combinators flatten each input Fop's
// batch of results into the output stream, either in completion order
// (the default, higher-throughput "unordered" mode) or in input arrival
// order ("ordered" mode, selected with WithOrdered).
package pipeline

import (
	"context"
	"sync"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/processor"
)

// Options configures one Apply/BoundedApply call.
type Options struct {
	ordered bool
}

// Option mutates Options; see WithOrdered.
type Option func(*Options)

// WithOrdered selects ordered emission: siblings of input i precede all
// siblings of input j whenever i preceded j at the input. The default
// is unordered, which emits results as they complete and offers higher
// throughput since a slow item never holds up faster ones behind it.
func WithOrdered() Option {
	return func(o *Options) { o.ordered = true }
}

// Apply runs p over every Fop pulled from in with no concurrency limit:
// each input item's ProcessOne call starts as soon as it is pulled, and
// as many may be in flight as the source produces.
func Apply(ctx context.Context, in <-chan fop.Fop, p processor.Processor, opts ...Option) (<-chan fop.Fop, <-chan error) {
	return run(ctx, in, nil, p, opts...)
}

// BoundedApply runs p the same way Apply does, except each ProcessOne
// call is gated by pool: a permit is acquired before the call and
// released on every exit path, including the processor panicking or
// the surrounding context being canceled.
func BoundedApply(ctx context.Context, in <-chan fop.Fop, p processor.Processor, pool *Pool, opts ...Option) (<-chan fop.Fop, <-chan error) {
	return run(ctx, in, pool, p, opts...)
}

func run(ctx context.Context, in <-chan fop.Fop, pool *Pool, p processor.Processor, opts ...Option) (<-chan fop.Fop, <-chan error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	out := make(chan fop.Fop)
	errs := make(chan error, 1)

	stageCtx, cancel := context.WithCancel(ctx)

	invoke := func(f fop.Fop) ([]fop.Fop, error) {
		if pool != nil {
			if err := pool.acquire(stageCtx); err != nil {
				return nil, nil
			}
			defer pool.release()
		}
		return p.ProcessOne(stageCtx, f)
	}

	fail := func(err error) {
		select {
		case errs <- err:
		default:
		}
		cancel()
	}

	if o.ordered {
		go runOrdered(stageCtx, cancel, in, out, errs, invoke, fail)
	} else {
		go runUnordered(stageCtx, cancel, in, out, errs, invoke, fail)
	}

	return out, errs
}

func runUnordered(ctx context.Context, cancel context.CancelFunc, in <-chan fop.Fop, out chan<- fop.Fop, errs chan<- error, invoke func(fop.Fop) ([]fop.Fop, error), fail func(error)) {
	defer cancel()
	defer close(out)
	defer close(errs)

	var wg sync.WaitGroup
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case f, ok := <-in:
			if !ok {
				break loop
			}
			wg.Add(1)
			go func(item fop.Fop) {
				defer wg.Done()
				batch, err := invoke(item)
				if err != nil {
					fail(err)
					return
				}
				for _, r := range batch {
					select {
					case out <- r:
					case <-ctx.Done():
						return
					}
				}
			}(f)
		}
	}
	wg.Wait()
}

// resultSlot carries one input item's eventual batch, preserving the
// order items were pulled from in regardless of how long each one's
// ProcessOne call takes to finish.
type resultSlot struct {
	ch chan orderedResult
}

type orderedResult struct {
	batch []fop.Fop
	err   error
}

func runOrdered(ctx context.Context, cancel context.CancelFunc, in <-chan fop.Fop, out chan<- fop.Fop, errs chan<- error, invoke func(fop.Fop) ([]fop.Fop, error), fail func(error)) {
	defer cancel()
	defer close(out)
	defer close(errs)

	slots := make(chan resultSlot)

	go func() {
		defer close(slots)
		for {
			select {
			case <-ctx.Done():
				return
			case f, ok := <-in:
				if !ok {
					return
				}
				slot := resultSlot{ch: make(chan orderedResult, 1)}
				select {
				case slots <- slot:
				case <-ctx.Done():
					return
				}
				go func(item fop.Fop, s resultSlot) {
					batch, err := invoke(item)
					s.ch <- orderedResult{batch: batch, err: err}
				}(f, slot)
			}
		}
	}()

	for slot := range slots {
		select {
		case res := <-slot.ch:
			if res.err != nil {
				fail(res.err)
				return
			}
			for _, r := range res.batch {
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
