// Package stamp defines the start/end timing protocol stages use to
// attach duration measurements to a Fop.
package stamp

import (
	"fmt"
	"time"

	"github.com/file-or-pattern/fop/fop"
)

// Token is the opaque value Start returns and End consumes. Creating one
// must be cheap enough to call on every stage invocation without
// measurably perturbing the timing it records.
type Token struct {
	name  string
	start time.Time
}

// Stamper brackets a stage invocation with a starting instant and a
// completed measurement.
type Stamper interface {
	Start(stageName, fileOrPattern string) Token
	End(t Token) fop.Record
}

// StartNamer produces the name a Stamper records a measurement under.
// The default is "<stageName>:<fileOrPattern>".
type StartNamer func(stageName, fileOrPattern string) string

// DefaultStartNamer implements the default naming strategy.
func DefaultStartNamer(stageName, fileOrPattern string) string {
	return fmt.Sprintf("%s:%s", stageName, fileOrPattern)
}
