package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file-or-pattern/fop/fop"
)

func TestGuardPassesThroughCleanFop(t *testing.T) {
	g := NewGuard(false)
	out, err := g.ProcessOne(context.Background(), fop.Fop{FileOrPattern: "a"})
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestGuardSilentlyDropsErroredFopWhenNotFailFast(t *testing.T) {
	g := NewGuard(false)
	f := fop.Fop{FileOrPattern: "a"}.WithErr(fop.NewStageError("Glob", fop.ErrNotFound, "nope", nil))
	out, err := g.ProcessOne(context.Background(), f)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGuardFailFastReturnsTerminalError(t *testing.T) {
	g := NewGuard(true)
	f := fop.Fop{FileOrPattern: "a"}.WithErr(fop.NewStageError("Glob", fop.ErrNotFound, "nope", nil))
	out, err := g.ProcessOne(context.Background(), f)
	require.Error(t, err)
	assert.Nil(t, out)
	var stageErr *fop.StageError
	assert.True(t, errors.As(err, &stageErr))
}
