// Package stage implements FOP's six built-in processors: Parse,
// CheckExist, Glob, ReadContent, Execute, and Guard.
package stage

import (
	"context"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopslog"
)

const parseStageName = "Parse"

// Parse is the conventional first stage in a pipeline. It is the place
// a Fop's identity field is validated before anything downstream relies
// on it being set.
type Parse struct {
	// GuardMode, when true, attaches a Config error to fops whose
	// FileOrPattern is empty instead of silently letting them through.
	GuardMode bool

	log *fopslog.Logger
}

// ParseOption configures a Parse stage at construction.
type ParseOption func(*Parse)

// WithParseLogger attaches a logger for stage entry and error events.
// A nil logger (the default) disables logging.
func WithParseLogger(l *fopslog.Logger) ParseOption {
	return func(p *Parse) { p.log = l }
}

// NewParse constructs a Parse stage.
func NewParse(guardMode bool, opts ...ParseOption) *Parse {
	p := &Parse{GuardMode: guardMode}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parse) Name() string { return parseStageName }

func (p *Parse) ProcessOne(_ context.Context, f fop.Fop) ([]fop.Fop, error) {
	if p.log != nil {
		p.log.Debug("stage start", fopslog.StageFields(parseStageName, f.FileOrPattern)...)
	}
	if f.FileOrPattern == "" && p.GuardMode {
		out := f.WithErr(fop.NewStageError(parseStageName, fop.ErrConfig, "fileOrPattern must be set", nil))
		if p.log != nil {
			p.log.Warn("stage error", fopslog.ErrFields(string(fop.ErrConfig), parseStageName, fopslog.StageFields(parseStageName, f.FileOrPattern))...)
		}
		return []fop.Fop{out}, nil
	}
	return []fop.Fop{f}, nil
}
