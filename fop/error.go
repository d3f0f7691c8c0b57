package fop

import "fmt"

// ErrorKind classifies the recoverable failures a stage can attach to a
// Fop. Every StageError carries exactly one Kind.
type ErrorKind string

const (
	// ErrConfig marks a Parse-stage failure: guard-mode is enabled and
	// the input Fop has no FileOrPattern set.
	ErrConfig ErrorKind = "config"
	// ErrNotFound marks a Glob-stage failure: the pattern's base
	// directory does not exist.
	ErrNotFound ErrorKind = "not_found"
	// ErrBadPattern marks a Glob-stage failure: the pattern failed to
	// compile.
	ErrBadPattern ErrorKind = "bad_pattern"
	// ErrScan marks a Glob-stage failure during traversal itself
	// (mid-scan I/O failure).
	ErrScan ErrorKind = "scan_error"
	// ErrIO marks an I/O failure other than not-found: a ReadContent
	// open/read failure, or a CheckExist or literal-path Glob stat
	// failure.
	ErrIO ErrorKind = "io"
	// ErrNotExecutable marks an Execute-stage failure: expectExecution
	// was set and the target file is not executable.
	ErrNotExecutable ErrorKind = "not_executable"
	// ErrExecFailed marks an Execute-stage failure: the subprocess
	// exited non-zero or the configured FailChecker rejected it.
	ErrExecFailed ErrorKind = "exec_failed"
	// ErrSpawnError marks an Execute-stage failure: the subprocess
	// could not be started at all.
	ErrSpawnError ErrorKind = "spawn_error"
)

// StageError is the typed failure a stage attaches to Fop.Err. It always
// names the stage that produced it, per the invariant that every
// attached error carries its origin.
type StageError struct {
	Stage   string
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Stage, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Kind, e.Message)
}

// Unwrap exposes the underlying error for errors.Is/errors.As.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same error kind, so callers can
// write errors.Is(err, &StageError{Kind: fop.ErrBadPattern}) style
// checks without matching Stage or Message.
func (e *StageError) Is(target error) bool {
	t, ok := target.(*StageError)
	if !ok {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	if t.Stage != "" && t.Stage != e.Stage {
		return false
	}
	return true
}

// NewStageError builds a StageError, the conventional way every
// built-in stage attaches a failure to a Fop.
func NewStageError(stage string, kind ErrorKind, message string, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Message: message, Err: err}
}
