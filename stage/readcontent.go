package stage

import (
	"context"
	"os"
	"unicode/utf8"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopslog"
)

const readContentStageName = "ReadContent"

// ReadContent reads a Fop's resolved Filename into memory, unless
// Filename is unset, in which case it passes the Fop through unchanged.
type ReadContent struct {
	// AsText attempts a UTF-8 decode; on failure it falls back to a
	// byte payload. When false, content is always stored as raw bytes.
	AsText bool
	// RecordEncoding tags the resulting Fop's Encoding field ("utf8" or
	// "binary"). Ignored when AsText is false.
	RecordEncoding bool

	log *fopslog.Logger
}

// ReadContentOption configures a ReadContent stage at construction.
type ReadContentOption func(*ReadContent)

// WithReadContentLogger attaches a logger for stage entry and error
// events. A nil logger (the default) disables logging.
func WithReadContentLogger(l *fopslog.Logger) ReadContentOption {
	return func(r *ReadContent) { r.log = l }
}

// NewReadContent constructs a ReadContent stage.
func NewReadContent(asText, recordEncoding bool, opts ...ReadContentOption) *ReadContent {
	r := &ReadContent{AsText: asText, RecordEncoding: recordEncoding}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ReadContent) Name() string { return readContentStageName }

func (r *ReadContent) ProcessOne(_ context.Context, f fop.Fop) ([]fop.Fop, error) {
	if r.log != nil {
		r.log.Debug("stage start", fopslog.StageFields(readContentStageName, f.FileOrPattern)...)
	}
	if f.Filename == nil {
		return []fop.Fop{f}, nil
	}

	raw, err := os.ReadFile(*f.Filename)
	if err != nil {
		out := f.WithErr(fop.NewStageError(readContentStageName, fop.ErrIO, "read failed", err))
		if r.log != nil {
			r.log.Warn("stage error", fopslog.ErrFields(string(fop.ErrIO), readContentStageName, fopslog.StageFields(readContentStageName, f.FileOrPattern))...)
		}
		return []fop.Fop{out}, nil
	}

	out := f
	if !r.AsText {
		out.Content = &fop.Content{Bytes: raw}
		return []fop.Fop{out}, nil
	}

	if utf8.Valid(raw) {
		out.Content = &fop.Content{IsText: true, Text: string(raw)}
		if r.RecordEncoding {
			out.Encoding = strPtr("utf8")
		}
		return []fop.Fop{out}, nil
	}

	out.Content = &fop.Content{Bytes: raw}
	if r.RecordEncoding {
		out.Encoding = strPtr("binary")
	}
	return []fop.Fop{out}, nil
}

func strPtr(s string) *string { return &s }
