package stage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopslog"
	"github.com/file-or-pattern/fop/stamp"
)

const executeStageName = "Execute"

// FailChecker decides whether a finished subprocess counts as a
// success. Execute calls it once the process has exited, passing the
// process state and captured stderr.
type FailChecker func(state *os.ProcessState, stderr []byte) error

// ExitStatusFailChecker is the default FailChecker: it looks only at
// the exit status, per this spec's resolution of Execute's fail-checker
// Open Question.
func ExitStatusFailChecker(state *os.ProcessState, stderr []byte) error {
	if state != nil && state.Success() {
		return nil
	}
	code := -1
	if state != nil {
		code = state.ExitCode()
	}
	return fmt.Errorf("exit status %d: %s", code, bytes.TrimSpace(stderr))
}

// ExecuteOption configures an Execute stage at construction.
type ExecuteOption func(*Execute)

// WithFailChecker overrides the default exit-status-only FailChecker.
func WithFailChecker(fc FailChecker) ExecuteOption {
	return func(e *Execute) { e.FailCheck = fc }
}

// WithExecutionStamper brackets the subprocess run with stamper.Start/
// stamper.End and attaches the measurement to Fop.Timestamp[name].
func WithExecutionStamper(s stamp.Stamper, name string) ExecuteOption {
	return func(e *Execute) { e.Stamper = s; e.ExecutionName = name }
}

// WithExecuteLogger attaches a logger for stage entry and error events.
// A nil logger (the default) disables logging.
func WithExecuteLogger(l *fopslog.Logger) ExecuteOption {
	return func(e *Execute) { e.log = l }
}

// Execute probes whether its target is executable and, if so, runs it
// as a subprocess and captures stdout as the Fop's content. The target
// is Filename if set, otherwise FileOrPattern treated directly as a
// path.
type Execute struct {
	// ExpectExecution controls behavior when the target is not
	// executable: false passes the Fop through unchanged, true attaches
	// a NotExecutable error.
	ExpectExecution bool
	// AsText stores captured stdout as decoded text instead of raw
	// bytes.
	AsText bool

	FailCheck     FailChecker
	Stamper       stamp.Stamper
	ExecutionName string

	log *fopslog.Logger
}

// NewExecute constructs an Execute stage.
func NewExecute(expectExecution, asText bool, opts ...ExecuteOption) *Execute {
	e := &Execute{
		ExpectExecution: expectExecution,
		AsText:          asText,
		FailCheck:       ExitStatusFailChecker,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Execute) Name() string { return executeStageName }

func (e *Execute) ProcessOne(ctx context.Context, f fop.Fop) ([]fop.Fop, error) {
	if e.log != nil {
		e.log.Debug("stage start", fopslog.StageFields(executeStageName, f.FileOrPattern)...)
	}

	target := f.FileOrPattern
	if f.Filename != nil {
		target = *f.Filename
	}

	info, statErr := os.Stat(target)
	executable := statErr == nil && !info.IsDir() && info.Mode()&0o111 != 0

	if !executable {
		if !e.ExpectExecution {
			return []fop.Fop{f}, nil
		}
		out := f.WithErr(fop.NewStageError(executeStageName, fop.ErrNotExecutable, "target is not executable", statErr))
		e.warnErr(fop.ErrNotExecutable, f.FileOrPattern)
		return []fop.Fop{out}, nil
	}

	var token stamp.Token
	stampName := e.ExecutionName
	if stampName == "" {
		stampName = executeStageName
	}
	if e.Stamper != nil {
		token = e.Stamper.Start(stampName, f.FileOrPattern)
	}

	cmd := exec.CommandContext(ctx, target)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	out := f
	ran := true
	out.Executable = &ran

	if e.Stamper != nil {
		rec := e.Stamper.End(token)
		out = out.StampedTimestamp(stampName, rec)
	}

	if _, ok := runErr.(*exec.Error); ok {
		e.warnErr(fop.ErrSpawnError, f.FileOrPattern)
		return []fop.Fop{out.WithErr(fop.NewStageError(executeStageName, fop.ErrSpawnError, "failed to start subprocess", runErr))}, nil
	}

	checker := e.FailCheck
	if checker == nil {
		checker = ExitStatusFailChecker
	}
	if failErr := checker(cmd.ProcessState, stderr.Bytes()); failErr != nil {
		e.warnErr(fop.ErrExecFailed, f.FileOrPattern)
		return []fop.Fop{out.WithErr(fop.NewStageError(executeStageName, fop.ErrExecFailed, "subprocess failed", failErr))}, nil
	}

	if e.AsText {
		out.Content = &fop.Content{IsText: true, Text: stdout.String()}
	} else {
		out.Content = &fop.Content{Bytes: stdout.Bytes()}
	}
	return []fop.Fop{out}, nil
}

func (e *Execute) warnErr(kind fop.ErrorKind, fileOrPattern string) {
	if e.log == nil {
		return
	}
	e.log.Warn("stage error", fopslog.ErrFields(string(kind), executeStageName, fopslog.StageFields(executeStageName, fileOrPattern))...)
}
