package ddp

import (
	"errors"
	"fmt"
	"strings"

	"ddpsdk/internal/services"
)

// EngineError reports that the engine ran and exited nonzero. Output is the
// engine's combined stream, verbatim; credential rejections arrive this way.
type EngineError struct {
	Mode     Mode
	ExitCode int
	Output   string
}

func (e *EngineError) Error() string {
	if msg := strings.TrimSpace(e.Output); msg != "" {
		return msg
	}
	return fmt.Sprintf("ddp exited with code %d", e.ExitCode)
}

// Is matches services.ErrExternalTool.
func (e *EngineError) Is(target error) bool {
	return target == services.ErrExternalTool
}

// LaunchError reports that the engine could not be started or was interrupted
// before it exited. Err is the underlying cause, including context.Canceled
// and context.DeadlineExceeded.
type LaunchError struct {
	Binary string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Binary, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Is matches services.ErrLaunch.
func (e *LaunchError) Is(target error) bool {
	return target == services.ErrLaunch
}

// ExitCode extracts the engine exit code carried by err, or -1 when the
// engine never produced one.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.ExitCode
	}
	if services.Classify(err) == services.OutcomeMetadataError {
		return 0
	}
	return -1
}
