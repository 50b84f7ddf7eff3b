package ddp

import (
	"context"
	"time"

	"ddpsdk/internal/services"
)

// Record summarizes one finished public operation.
type Record struct {
	ID         string
	Operation  string
	Input      string
	Output     string
	StartedAt  time.Time
	Duration   time.Duration
	ExitCode   int
	Outcome    services.Outcome
	TrackCount int
	Error      string
}

// Recorder receives a Record after every operation. Failures are logged and
// never change the operation's result.
type Recorder interface {
	Record(ctx context.Context, record Record) error
}
