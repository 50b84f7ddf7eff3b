package ddp

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Mode selects the engine subcommand.
type Mode string

const (
	ModeProcess Mode = "process"
	ModeJSON    Mode = "json"
)

// waitDelay bounds how long Wait keeps reading output after the engine is
// killed, in case a grandchild still holds the pipe open.
const waitDelay = 5 * time.Second

// Invocation is the raw result of one engine run.
type Invocation struct {
	ExitCode int
	// Output holds stdout and stderr interleaved in arrival order.
	Output string
}

// Invoker launches the engine and waits for it. A nonzero exit is reported in
// Invocation.ExitCode, not as an error; errors mean the engine could not be
// run to completion.
type Invoker interface {
	Invoke(ctx context.Context, binary string, args []string) (Invocation, error)
}

// CommandInvoker runs the engine with os/exec.
type CommandInvoker struct{}

// Invoke starts binary with args, buffers its combined output in memory and
// blocks until it exits or ctx is done.
func (CommandInvoker) Invoke(ctx context.Context, binary string, args []string) (Invocation, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.WaitDelay = waitDelay

	// One writer for both streams keeps their relative ordering.
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	inv := Invocation{Output: combined.String()}
	if err == nil {
		return inv, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		inv.ExitCode = -1
		return inv, &LaunchError{Binary: binary, Err: ctxErr}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		inv.ExitCode = exitErr.ExitCode()
		return inv, nil
	}
	inv.ExitCode = -1
	return inv, &LaunchError{Binary: binary, Err: err}
}
