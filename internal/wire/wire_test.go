package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file-or-pattern/fop/fop"
)

func sampleFops() []fop.Fop {
	name := "a.txt"
	handle := &fop.MatchHandle{ID: "m1", Pattern: "*.txt", BaseDir: "."}
	return []fop.Fop{
		{FileOrPattern: "*.txt", Filename: &name, Match: handle, Content: &fop.Content{IsText: true, Text: "hello"}},
		{FileOrPattern: "missing.log", Err: fop.NewStageError("Glob", fop.ErrNotFound, "base directory not found", nil)},
	}
}

func TestFromFopRoundTripsCoreFields(t *testing.T) {
	recs := Records(sampleFops())
	require.Len(t, recs, 2)

	assert.Equal(t, "a.txt", recs[0].Filename)
	assert.Equal(t, "m1", recs[0].MatchID)
	assert.True(t, recs[0].IsText)
	assert.Equal(t, "hello", recs[0].Text)

	assert.Equal(t, "Glob", recs[1].ErrStage)
	assert.Equal(t, string(fop.ErrNotFound), recs[1].ErrKind)
}

func TestMsgpackEncodeDecodeRoundTrip(t *testing.T) {
	recs := Records(sampleFops())

	var buf bytes.Buffer
	require.NoError(t, EncodeMsgpack(&buf, recs))

	decoded, err := DecodeMsgpack(&buf)
	require.NoError(t, err)
	assert.Equal(t, recs, decoded)
}

func TestJSONEncodeProducesValidArray(t *testing.T) {
	recs := Records(sampleFops())
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, recs))
	assert.Contains(t, buf.String(), `"file_or_pattern": "*.txt"`)
}

func TestDecodeMsgpackRejectsOversizedPrefix(t *testing.T) {
	var buf bytes.Buffer
	big := uint32(MaxPayloadSize + 1)
	require.NoError(t, writeUint32(&buf, big))

	_, err := DecodeMsgpack(&buf)
	require.Error(t, err)
}

func writeUint32(w *bytes.Buffer, v uint32) error {
	b := []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	_, err := w.Write(b)
	return err
}
