// Package fopslog provides structured logging for a pipeline run.
//
// Two variants are available:
//   - Logger: non-sugared zap.Logger for the stage/pipeline packages
//     (structured fields, no allocation for disabled levels)
//   - Sugared: printf-style logging for cmd/fop's CLI surface
//
// Use Logger.Sugar() to obtain a Sugared logger when needed.
package fopslog

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunMeta identifies the pipeline invocation a Logger's entries belong
// to, attached to every entry as structured fields.
type RunMeta struct {
	RunID string
	// Recipe names which recipe.Pipeline constructor built this run
	// ("simple" or "bounded" in cmd/fop).
	Recipe string
}

// Logger wraps a zap.Logger with run identity fields pre-attached.
type Logger struct {
	zap    *zap.Logger
	fields []zap.Field
}

// Sugared wraps zap.SugaredLogger for printf-style CLI output.
type Sugared struct {
	sugar *zap.SugaredLogger
}

// New creates a Logger with run context, writing JSON lines to
// os.Stderr.
func New(meta RunMeta) *Logger {
	return newWithWriter(meta, os.Stderr)
}

// Nop returns a Logger that discards everything, for tests and library
// callers that haven't opted into logging.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// WithOutput returns a copy of l writing to w instead of its current
// destination.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), zapcore.DebugLevel)
	return &Logger{zap: zap.New(core).With(l.fields...), fields: l.fields}
}

func newWithWriter(meta RunMeta, w io.Writer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), zapcore.DebugLevel)

	fields := []zap.Field{zap.String("run_id", meta.RunID)}
	if meta.Recipe != "" {
		fields = append(fields, zap.String("recipe", meta.Recipe))
	}

	return &Logger{zap: zap.New(core).With(fields...), fields: fields}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
}

// StageFields builds the structured fields every stage log line
// carries.
func StageFields(stage, fileOrPattern string) []zap.Field {
	return []zap.Field{
		zap.String("stage", stage),
		zap.String("file_or_pattern", fileOrPattern),
	}
}

// ErrFields appends an error's kind and stage to fields, for logging a
// Fop that carries a StageError.
func ErrFields(kind, stage string, fields []zap.Field) []zap.Field {
	return append(fields, zap.String("err.kind", kind), zap.String("err.stage", stage))
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zap.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.zap.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.zap.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zap.Error(msg, fields...) }

// Sugar returns a Sugared logger sharing this Logger's core.
func (l *Logger) Sugar() *Sugared {
	return &Sugared{sugar: l.zap.Sugar()}
}

func (s *Sugared) Debugf(template string, args ...any) { s.sugar.Debugf(template, args...) }
func (s *Sugared) Infof(template string, args ...any)  { s.sugar.Infof(template, args...) }
func (s *Sugared) Warnf(template string, args ...any)  { s.sugar.Warnf(template, args...) }
func (s *Sugared) Errorf(template string, args ...any) { s.sugar.Errorf(template, args...) }

// With returns a Sugared logger with additional key-value context.
func (s *Sugared) With(args ...any) *Sugared {
	return &Sugared{sugar: s.sugar.With(args...)}
}
