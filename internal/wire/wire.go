// Package wire encodes a finished pipeline's batch of fops for
// cmd/fop's --format json and --format msgpack output modes. The
// msgpack framing (4-byte big-endian length prefix ahead of the
// payload) is the same shape as ipc.FrameEncoder/FrameDecoder, narrowed
// from a streaming multi-type IPC protocol down to a single
// encode-a-batch-once call.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/file-or-pattern/fop/fop"
)

// MaxPayloadSize bounds a decoded batch frame, matching the ipc
// package's frame-size ceiling so a corrupt or adversarial length
// prefix can't force an unbounded allocation.
const MaxPayloadSize = 16 * 1024 * 1024

// Record is the flat, serializable projection of a fop.Fop. Pointer
// fields on Fop become optional fields here; Record has no pointer
// back into the originating pipeline, so it is safe to encode after
// the pipeline has finished.
type Record struct {
	FileOrPattern string `json:"file_or_pattern" msgpack:"file_or_pattern"`
	Filename      string `json:"filename,omitempty" msgpack:"filename,omitempty"`
	Executable    *bool  `json:"executable,omitempty" msgpack:"executable,omitempty"`

	MatchID      string `json:"match_id,omitempty" msgpack:"match_id,omitempty"`
	MatchPattern string `json:"match_pattern,omitempty" msgpack:"match_pattern,omitempty"`

	IsText bool   `json:"is_text,omitempty" msgpack:"is_text,omitempty"`
	Text   string `json:"text,omitempty" msgpack:"text,omitempty"`
	Bytes  []byte `json:"bytes,omitempty" msgpack:"bytes,omitempty"`
	Encoding string `json:"encoding,omitempty" msgpack:"encoding,omitempty"`

	ErrStage   string `json:"err_stage,omitempty" msgpack:"err_stage,omitempty"`
	ErrKind    string `json:"err_kind,omitempty" msgpack:"err_kind,omitempty"`
	ErrMessage string `json:"err_message,omitempty" msgpack:"err_message,omitempty"`
}

// FromFop projects a fop.Fop into its wire Record.
func FromFop(f fop.Fop) Record {
	rec := Record{FileOrPattern: f.FileOrPattern, Executable: f.Executable}
	if f.Filename != nil {
		rec.Filename = *f.Filename
	}
	if f.Match != nil {
		rec.MatchID = f.Match.ID
		rec.MatchPattern = f.Match.Pattern
	}
	if f.Content != nil {
		rec.IsText = f.Content.IsText
		rec.Text = f.Content.Text
		rec.Bytes = f.Content.Bytes
	}
	if f.Encoding != nil {
		rec.Encoding = *f.Encoding
	}
	if f.Err != nil {
		rec.ErrStage = f.Err.Stage
		rec.ErrKind = string(f.Err.Kind)
		rec.ErrMessage = f.Err.Message
	}
	return rec
}

// Records projects a batch of fops in order.
func Records(fops []fop.Fop) []Record {
	out := make([]Record, len(fops))
	for i, f := range fops {
		out[i] = FromFop(f)
	}
	return out
}

// EncodeJSON writes recs to w as an indented JSON array.
func EncodeJSON(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// EncodeMsgpack writes recs to w as one length-prefixed msgpack frame:
// a 4-byte big-endian payload length followed by the msgpack-encoded
// array.
func EncodeMsgpack(w io.Writer, recs []Record) error {
	payload, err := msgpack.Marshal(recs)
	if err != nil {
		return fmt.Errorf("wire: marshal batch: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("wire: batch payload %d bytes exceeds maximum %d", len(payload), MaxPayloadSize)
	}

	var lengthBuf [4]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(payload)))
	if _, err := w.Write(lengthBuf[:]); err != nil {
		return fmt.Errorf("wire: write length prefix: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("wire: write payload: %w", err)
	}
	return nil
}

// DecodeMsgpack reads one length-prefixed msgpack batch frame from r,
// the inverse of EncodeMsgpack.
func DecodeMsgpack(r io.Reader) ([]Record, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return nil, fmt.Errorf("wire: read length prefix: %w", err)
	}

	size := binary.BigEndian.Uint32(lengthBuf[:])
	if size > MaxPayloadSize {
		return nil, fmt.Errorf("wire: payload size %d exceeds maximum %d", size, MaxPayloadSize)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("wire: read payload: %w", err)
	}

	var recs []Record
	if err := msgpack.Unmarshal(payload, &recs); err != nil {
		return nil, fmt.Errorf("wire: unmarshal batch: %w", err)
	}
	return recs, nil
}
