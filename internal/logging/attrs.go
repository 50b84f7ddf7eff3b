package logging

import (
	"log/slog"
	"time"
)

type Attr = slog.Attr

// Keys shared by engine, staging and journal records so log queries can
// follow one invocation across components.
const (
	FieldPath     = "path"
	FieldExitCode = "exit_code"
	FieldElapsed  = "elapsed"
	FieldOutcome  = "outcome"
	FieldTracks   = "tracks"
)

func String(key string, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Path tags a staging, output or metadata path.
func Path(path string) Attr { return slog.String(FieldPath, path) }

// ExitCode tags the engine's exit status; -1 means it never exited on its own.
func ExitCode(code int) Attr { return slog.Int(FieldExitCode, code) }

// Elapsed tags wall time rounded to milliseconds.
func Elapsed(d time.Duration) Attr { return slog.Duration(FieldElapsed, d.Round(time.Millisecond)) }

// Outcome tags the classified result of an operation.
func Outcome(outcome string) Attr { return slog.String(FieldOutcome, outcome) }

// Tracks tags the number of tracks a document reported.
func Tracks(n int) Attr { return slog.Int(FieldTracks, n) }

// NewNop returns a logger that drops everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always names its event, the next step
// and what the caller loses. Missing fields get defaults suited to the
// best-effort paths that warn: staging cleanup and journal writes never
// change an operation's result.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	if !hasAttrKey(attrs, FieldEventType) {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	if !hasAttrKey(attrs, FieldErrorHint) {
		attrs = append(attrs, String(FieldErrorHint, "check permissions on the configured paths"))
	}
	if !hasAttrKey(attrs, FieldImpact) {
		attrs = append(attrs, String(FieldImpact, "operation result unaffected"))
	}
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	logger.Warn(msg, args...)
}

func hasAttrKey(attrs []Attr, key string) bool {
	for _, a := range attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}
