package pipeline_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/pipeline"
	"github.com/file-or-pattern/fop/processor"
)

func sourceOf(t *testing.T, items ...string) <-chan fop.Fop {
	t.Helper()
	ch := make(chan fop.Fop, len(items))
	for _, s := range items {
		ch <- fop.Fop{FileOrPattern: s}
	}
	close(ch)
	return ch
}

func doubler(name string) processor.Processor {
	return processor.Func{
		StageName: name,
		Fn: func(_ context.Context, f fop.Fop) ([]fop.Fop, error) {
			a, b := f, f
			return []fop.Fop{a, b}, nil
		},
	}
}

func TestApplyUnorderedFansOutEveryItem(t *testing.T) {
	in := sourceOf(t, "a", "b", "c")
	out, errs := pipeline.Apply(context.Background(), in, doubler("dup"))

	var got []string
	for f := range out {
		got = append(got, f.FileOrPattern)
	}
	require.NoError(t, drain(errs))
	assert.Len(t, got, 6)
}

func TestApplyOrderedPreservesInputOrder(t *testing.T) {
	in := sourceOf(t, "a", "b", "c")
	sleepy := processor.Func{
		StageName: "sleepy",
		Fn: func(_ context.Context, f fop.Fop) ([]fop.Fop, error) {
			if f.FileOrPattern == "a" {
				time.Sleep(20 * time.Millisecond)
			}
			return []fop.Fop{f}, nil
		},
	}

	out, errs := pipeline.Apply(context.Background(), in, sleepy, pipeline.WithOrdered())

	var got []string
	for f := range out {
		got = append(got, f.FileOrPattern)
	}
	require.NoError(t, drain(errs))
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestBoundedApplyRespectsCapacity(t *testing.T) {
	in := sourceOf(t, "1", "2", "3", "4", "5")
	pool := pipeline.NewPool(2)

	var inFlight, peak int64
	track := processor.Func{
		StageName: "track",
		Fn: func(_ context.Context, f fop.Fop) ([]fop.Fop, error) {
			n := atomic.AddInt64(&inFlight, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(15 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			return []fop.Fop{f}, nil
		},
	}

	start := time.Now()
	out, errs := pipeline.BoundedApply(context.Background(), in, track, pool)
	var count int
	for range out {
		count++
	}
	elapsed := time.Since(start)

	require.NoError(t, drain(errs))
	assert.Equal(t, 5, count)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
	assert.GreaterOrEqual(t, elapsed, 45*time.Millisecond, "five items at cap 2 should take at least ceil(5/2) rounds")
}

func TestApplyPropagatesTerminalError(t *testing.T) {
	in := sourceOf(t, "a", "b")
	boom := errors.New("boom")
	failing := processor.Func{
		StageName: "failing",
		Fn: func(_ context.Context, f fop.Fop) ([]fop.Fop, error) {
			return nil, boom
		},
	}

	out, errs := pipeline.Apply(context.Background(), in, failing)
	for range out {
	}

	err := drain(errs)
	require.ErrorIs(t, err, boom)
}

func TestBoundedApplyReleasesPermitsOnCancellation(t *testing.T) {
	in := make(chan fop.Fop)
	pool := pipeline.NewPool(3)
	ctx, cancel := context.WithCancel(context.Background())

	blocking := processor.Func{
		StageName: "blocking",
		Fn: func(ctx context.Context, f fop.Fop) ([]fop.Fop, error) {
			<-ctx.Done()
			return nil, nil
		},
	}

	out, _ := pipeline.BoundedApply(ctx, in, blocking, pool)
	for i := 0; i < 3; i++ {
		in <- fop.Fop{FileOrPattern: "x"}
	}
	cancel()
	close(in)
	for range out {
	}

	require.True(t, pool.TryAcquireAll(3), "all permits should be released back to the pool after cancellation")
}

func drain(errs <-chan error) error {
	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}
