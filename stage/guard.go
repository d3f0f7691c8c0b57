package stage

import (
	"context"
	"fmt"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopslog"
)

const guardStageName = "Guard"

// Guard is the conventional last stage in a pipeline. It decides what
// happens to a Fop that already carries an Err from an earlier stage.
type Guard struct {
	// FailFast turns any errored Fop into a terminal pipeline error
	// instead of silently dropping it.
	FailFast bool

	log *fopslog.Logger
}

// GuardOption configures a Guard stage at construction.
type GuardOption func(*Guard)

// WithGuardLogger attaches a logger for drop and fail-fast events. A
// nil logger (the default) disables logging.
func WithGuardLogger(l *fopslog.Logger) GuardOption {
	return func(g *Guard) { g.log = l }
}

// NewGuard constructs a Guard stage.
func NewGuard(failFast bool, opts ...GuardOption) *Guard {
	g := &Guard{FailFast: failFast}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) Name() string { return guardStageName }

func (g *Guard) ProcessOne(_ context.Context, f fop.Fop) ([]fop.Fop, error) {
	if f.Err == nil {
		return []fop.Fop{f}, nil
	}
	if g.FailFast {
		if g.log != nil {
			g.log.Warn("stage fail-fast", fopslog.ErrFields(string(f.Err.Kind), f.Err.Stage, fopslog.StageFields(guardStageName, f.FileOrPattern))...)
		}
		return nil, fmt.Errorf("%s: terminal error from stage %s: %w", guardStageName, f.Err.Stage, f.Err)
	}
	if g.log != nil {
		g.log.Debug("stage dropped", fopslog.ErrFields(string(f.Err.Kind), f.Err.Stage, fopslog.StageFields(guardStageName, f.FileOrPattern))...)
	}
	return nil, nil
}
