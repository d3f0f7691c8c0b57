package stage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopslog"
)

const globStageName = "Glob"

// DefaultScanPermits bounds the number of directory traversals a single
// Glob processor runs concurrently, preventing file-descriptor
// exhaustion under a large fan-in of patterns.
const DefaultScanPermits = 64

// Glob expands a Fop's FileOrPattern into zero or more sibling fops,
// one per matched path, when it hasn't already been resolved to a
// concrete Filename (by CheckExist or an earlier Glob); a Fop that
// already carries an Err is passed through unchanged. Patterns are
// split into a non-wildcard base directory and a relative glob via
// doublestar.SplitPattern, matching this stage's decomposition rule
// almost exactly; a pattern containing no wildcard metacharacter at all
// takes the literal fast path instead of touching the filesystem twice.
type Glob struct {
	sem *semaphore.Weighted
	log *fopslog.Logger
}

// GlobOption configures a Glob stage at construction.
type GlobOption func(*Glob)

// WithGlobLogger attaches a logger for stage entry, fan-out, and error
// events. A nil logger (the default) disables logging.
func WithGlobLogger(l *fopslog.Logger) GlobOption {
	return func(g *Glob) { g.log = l }
}

// NewGlob constructs a Glob stage with the given scan-concurrency
// permit count (DefaultScanPermits if non-positive).
func NewGlob(scanPermits int, opts ...GlobOption) *Glob {
	if scanPermits <= 0 {
		scanPermits = DefaultScanPermits
	}
	g := &Glob{sem: semaphore.NewWeighted(int64(scanPermits))}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Glob) Name() string { return globStageName }

func (g *Glob) ProcessOne(ctx context.Context, f fop.Fop) ([]fop.Fop, error) {
	if g.log != nil {
		g.log.Debug("stage start", fopslog.StageFields(globStageName, f.FileOrPattern)...)
	}
	if f.Filename != nil || f.Err != nil {
		return []fop.Fop{f}, nil
	}

	pattern := f.FileOrPattern
	if !hasMeta(pattern) {
		return g.literal(pattern, f)
	}

	if !doublestar.ValidatePattern(pattern) {
		out := f.WithErr(fop.NewStageError(globStageName, fop.ErrBadPattern, fmt.Sprintf("pattern %q failed to compile", pattern), nil))
		g.warnErr(fop.ErrBadPattern, f.FileOrPattern)
		return []fop.Fop{out}, nil
	}

	base, rel := doublestar.SplitPattern(pattern)
	if base == "" {
		base = "."
	}

	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		out := f.WithErr(fop.NewStageError(globStageName, fop.ErrNotFound, fmt.Sprintf("base directory %q not found", base), err))
		g.warnErr(fop.ErrNotFound, f.FileOrPattern)
		return []fop.Fop{out}, nil
	}

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, nil
	}
	defer g.sem.Release(1)

	handle := &fop.MatchHandle{ID: uuid.New().String(), Pattern: pattern, BaseDir: base}

	var results []fop.Fop
	walkErr := doublestar.GlobWalk(os.DirFS(base), rel, func(path string, d fs.DirEntry) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			return nil
		}
		name := filepath.Join(base, path)
		out := f
		out.Filename = &name
		out.Match = handle
		results = append(results, out)
		return nil
	})

	if walkErr != nil && !errors.Is(walkErr, context.Canceled) && !errors.Is(walkErr, context.DeadlineExceeded) {
		results = append(results, f.WithErr(fop.NewStageError(globStageName, fop.ErrScan, "scan failed mid-traversal", walkErr)))
		g.warnErr(fop.ErrScan, f.FileOrPattern)
	}
	if g.log != nil && len(results) > 0 {
		g.log.Debug("stage fan-out", append(fopslog.StageFields(globStageName, f.FileOrPattern), zap.Int("matches", len(results)))...)
	}
	return results, nil
}

func (g *Glob) warnErr(kind fop.ErrorKind, fileOrPattern string) {
	if g.log == nil {
		return
	}
	g.log.Warn("stage error", fopslog.ErrFields(string(kind), globStageName, fopslog.StageFields(globStageName, fileOrPattern))...)
}

func (g *Glob) literal(pattern string, f fop.Fop) ([]fop.Fop, error) {
	info, err := os.Stat(pattern)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return []fop.Fop{f.WithErr(fop.NewStageError(globStageName, fop.ErrIO, "stat failed", err))}, nil
	}
	if info.IsDir() {
		return nil, nil
	}
	name := pattern
	out := f
	out.Filename = &name
	return []fop.Fop{out}, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
