package stamp

import (
	"time"

	"github.com/file-or-pattern/fop/fop"
)

// HiRes times stages with Go's monotonic clock reading, carried inside
// time.Time for as long as the value isn't serialized. Names are
// produced by a StartNamer (DefaultStartNamer unless overridden).
type HiRes struct {
	Namer StartNamer
}

// NewHiRes constructs a HiRes stamper with the default naming strategy.
func NewHiRes() *HiRes {
	return &HiRes{Namer: DefaultStartNamer}
}

func (h *HiRes) namer() StartNamer {
	if h.Namer != nil {
		return h.Namer
	}
	return DefaultStartNamer
}

func (h *HiRes) Start(stageName, fileOrPattern string) Token {
	return Token{name: h.namer()(stageName, fileOrPattern), start: time.Now()}
}

func (h *HiRes) End(t Token) fop.Record {
	elapsed := time.Since(t.start)
	return fop.Record{
		Name:       t.name,
		StartedAt:  t.start.UnixNano(),
		DurationMs: float64(elapsed) / float64(time.Millisecond),
	}
}
