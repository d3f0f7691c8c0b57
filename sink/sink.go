// Package sink drains a pipeline's output channel into a final result,
// surfacing whatever terminal error the pipeline reported.
package sink

import (
	"context"

	"github.com/file-or-pattern/fop/fop"
)

// Collect reads every fop from out until it closes, then waits for errs
// to close and returns the accumulated slice together with the first
// error reported, if any. ctx cancellation stops the drain early and
// returns ctx.Err().
func Collect(ctx context.Context, out <-chan fop.Fop, errs <-chan error) ([]fop.Fop, error) {
	var results []fop.Fop
	var firstErr error

	for out != nil || errs != nil {
		select {
		case f, ok := <-out:
			if !ok {
				out = nil
				continue
			}
			results = append(results, f)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil && firstErr == nil {
				firstErr = err
			}
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, firstErr
}

// ForEach calls fn on every fop from out as it arrives, stopping early
// and returning fn's error the first time it returns one. It still
// drains out and errs before returning so the pipeline's goroutines
// don't leak, and reports the pipeline's own terminal error if fn never
// fails but the pipeline did.
func ForEach(ctx context.Context, out <-chan fop.Fop, errs <-chan error, fn func(fop.Fop) error) error {
	var fnErr error
	var pipelineErr error

	for out != nil || errs != nil {
		select {
		case f, ok := <-out:
			if !ok {
				out = nil
				continue
			}
			if fnErr == nil {
				if err := fn(f); err != nil {
					fnErr = err
				}
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil && pipelineErr == nil {
				pipelineErr = err
			}
		case <-ctx.Done():
			if fnErr != nil {
				return fnErr
			}
			return ctx.Err()
		}
	}
	if fnErr != nil {
		return fnErr
	}
	return pipelineErr
}
