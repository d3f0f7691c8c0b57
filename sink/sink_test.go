package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file-or-pattern/fop/fop"
)

func closedErrChan() <-chan error {
	ch := make(chan error)
	close(ch)
	return ch
}

func TestCollectGathersAllResults(t *testing.T) {
	out := make(chan fop.Fop, 2)
	out <- fop.Fop{FileOrPattern: "a"}
	out <- fop.Fop{FileOrPattern: "b"}
	close(out)

	results, err := Collect(context.Background(), out, closedErrChan())
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestCollectSurfacesTerminalError(t *testing.T) {
	out := make(chan fop.Fop)
	close(out)

	errs := make(chan error, 1)
	errs <- errors.New("boom")
	close(errs)

	results, err := Collect(context.Background(), out, errs)
	require.Error(t, err)
	assert.Empty(t, results)
}

func TestForEachStopsOnCallbackError(t *testing.T) {
	out := make(chan fop.Fop, 3)
	out <- fop.Fop{FileOrPattern: "a"}
	out <- fop.Fop{FileOrPattern: "b"}
	out <- fop.Fop{FileOrPattern: "c"}
	close(out)

	var seen int
	wantErr := errors.New("stop")
	err := ForEach(context.Background(), out, closedErrChan(), func(f fop.Fop) error {
		seen++
		if seen == 2 {
			return wantErr
		}
		return nil
	})
	require.ErrorIs(t, err, wantErr)
}

func TestForEachReportsPipelineErrorWhenCallbackNeverFails(t *testing.T) {
	out := make(chan fop.Fop, 1)
	out <- fop.Fop{FileOrPattern: "a"}
	close(out)

	errs := make(chan error, 1)
	errs <- errors.New("pipeline failed")
	close(errs)

	err := ForEach(context.Background(), out, errs, func(fop.Fop) error { return nil })
	require.Error(t, err)
	assert.Equal(t, "pipeline failed", err.Error())
}
