package fopslog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerAttachesRunContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(RunMeta{RunID: "run-1", Recipe: "simple"}).WithOutput(&buf)
	l.Info("scanning")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "simple", entry["recipe"])
	assert.Equal(t, "scanning", entry["message"])
}

func TestNopDiscardsEverything(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() { l.Info("anything") })
}
