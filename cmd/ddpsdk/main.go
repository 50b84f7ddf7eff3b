package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ddpsdk/internal/services/ddp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode mirrors the engine's own status when it rejected the request.
func exitCode(err error) int {
	var engineErr *ddp.EngineError
	if errors.As(err, &engineErr) && engineErr.ExitCode > 0 {
		return engineErr.ExitCode
	}
	return 1
}
