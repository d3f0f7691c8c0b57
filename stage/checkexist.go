package stage

import (
	"context"
	"errors"
	"os"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopslog"
)

const checkExistStageName = "CheckExist"

// CheckExist resolves a Fop's FileOrPattern to a concrete Filename when
// it names an existing regular file. A missing path is not an error —
// it is the expected signal that Glob should run next — but any other
// stat failure (permission denied, I/O error) attaches an Err.
type CheckExist struct {
	log *fopslog.Logger
}

// CheckExistOption configures a CheckExist stage at construction.
type CheckExistOption func(*CheckExist)

// WithCheckExistLogger attaches a logger for stage entry and error
// events. A nil logger (the default) disables logging.
func WithCheckExistLogger(l *fopslog.Logger) CheckExistOption {
	return func(c *CheckExist) { c.log = l }
}

// NewCheckExist constructs a CheckExist stage.
func NewCheckExist(opts ...CheckExistOption) *CheckExist {
	c := &CheckExist{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CheckExist) Name() string { return checkExistStageName }

func (c *CheckExist) ProcessOne(_ context.Context, f fop.Fop) ([]fop.Fop, error) {
	if c.log != nil {
		c.log.Debug("stage start", fopslog.StageFields(checkExistStageName, f.FileOrPattern)...)
	}
	if f.Filename != nil {
		return []fop.Fop{f}, nil
	}

	info, err := os.Stat(f.FileOrPattern)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []fop.Fop{f}, nil
		}
		out := f.WithErr(fop.NewStageError(checkExistStageName, fop.ErrIO, "stat failed", err))
		if c.log != nil {
			c.log.Warn("stage error", fopslog.ErrFields(string(fop.ErrIO), checkExistStageName, fopslog.StageFields(checkExistStageName, f.FileOrPattern))...)
		}
		return []fop.Fop{out}, nil
	}
	if info.IsDir() {
		return []fop.Fop{f}, nil
	}

	name := f.FileOrPattern
	out := f
	out.Filename = &name
	return []fop.Fop{out}, nil
}
