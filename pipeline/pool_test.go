package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/file-or-pattern/fop/pipeline"
)

func TestNewPoolClampsNonPositiveCapacity(t *testing.T) {
	assert.Equal(t, 1, pipeline.NewPool(0).Capacity())
	assert.Equal(t, 1, pipeline.NewPool(-5).Capacity())
	assert.Equal(t, 8, pipeline.NewPool(8).Capacity())
}
