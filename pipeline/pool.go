package pipeline

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool is a shared permit counter gating concurrent processor
// invocations. A single Pool may be passed to several BoundedApply
// calls in the same pipeline (the "one pool, many stages" pattern
// recipe.ExecReadExecBounded uses): the total number of simultaneous
// in-flight ProcessOne calls across every stage sharing the Pool never
// exceeds its capacity.
type Pool struct {
	sem      *semaphore.Weighted
	capacity int
}

// NewPool creates a Pool with the given capacity. A non-positive
// capacity is treated as 1 — a Pool always admits at least one
// in-flight invocation.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(capacity)), capacity: capacity}
}

// Capacity returns the permit count the Pool was constructed with.
func (p *Pool) Capacity() int {
	return p.capacity
}

func (p *Pool) acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

func (p *Pool) release() {
	p.sem.Release(1)
}

// TryAcquireAll reports whether n permits are immediately available,
// releasing them again before returning. Exercised by tests asserting
// that permits return to capacity after cancellation (spec property:
// no-leak under cancellation).
func (p *Pool) TryAcquireAll(n int) bool {
	if !p.sem.TryAcquire(int64(n)) {
		return false
	}
	p.sem.Release(int64(n))
	return true
}
