package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrLaunch        = errors.New("launch failure")
	ErrMetadata      = errors.New("metadata parse error")
	ErrStaging       = errors.New("staging failure")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Outcome is the stable label recorded for a finished operation.
type Outcome string

const (
	OutcomeSucceeded     Outcome = "succeeded"
	OutcomeEngineFailure Outcome = "engine_failure"
	OutcomeLaunchFailure Outcome = "launch_failure"
	OutcomeInterrupted   Outcome = "interrupted"
	OutcomeMetadataError Outcome = "metadata_error"
	OutcomeStagingError  Outcome = "staging_error"
	OutcomeInvalid       Outcome = "invalid_request"
	OutcomeUnknown       Outcome = "unknown_error"
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an operation error to its outcome label.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.Is(err, ErrExternalTool):
		return OutcomeEngineFailure
	case errors.Is(err, ErrLaunch):
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return OutcomeInterrupted
		}
		return OutcomeLaunchFailure
	case errors.Is(err, ErrMetadata):
		return OutcomeMetadataError
	case errors.Is(err, ErrStaging):
		return OutcomeStagingError
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return OutcomeInvalid
	default:
		return OutcomeUnknown
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
