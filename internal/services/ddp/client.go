package ddp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ddpsdk/internal/config"
	"ddpsdk/internal/fileset"
	"ddpsdk/internal/logging"
	"ddpsdk/internal/metadata"
	"ddpsdk/internal/services"
	"ddpsdk/internal/staging"
)

// Operation names recorded in logs and the journal.
const (
	OperationProcess          = "process"
	OperationProcessFromBytes = "process_from_bytes"
	OperationProcessToJSON    = "process_to_json"
)

const (
	apiKeyFlag   = "--api-key"
	outputFlag   = "--output"
	redactedArg  = "[redacted]"
	memoryPrefix = "fileset:"
)

// Option configures the client.
type Option func(*Client)

// WithInvoker injects a custom invoker (primarily for tests).
func WithInvoker(invoker Invoker) Option {
	return func(c *Client) {
		if invoker != nil {
			c.invoker = invoker
		}
	}
}

// WithBinary pins the engine executable. Without it LocateBinary runs on
// every invocation.
func WithBinary(binary string) Option {
	return func(c *Client) {
		c.binary = strings.TrimSpace(binary)
	}
}

// WithStager sets where ProcessFromBytes materializes its inputs.
func WithStager(stager *staging.Stager) Option {
	return func(c *Client) {
		if stager != nil {
			c.stager = stager
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.base = logger
		c.logger = logging.NewComponentLogger(logger, "ddp")
	}
}

// WithRecorder reports every finished operation to recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// WithTimeout bounds each engine run. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Client runs engine operations. It holds no per-call state, so one Client is
// safe for concurrent use.
type Client struct {
	base     *slog.Logger
	binary   string
	invoker  Invoker
	stager   *staging.Stager
	logger   *slog.Logger
	recorder Recorder
	timeout  time.Duration
}

// New constructs a client that launches the real engine.
func New(opts ...Option) *Client {
	client := &Client{
		invoker: CommandInvoker{},
		logger:  logging.NewComponentLogger(nil, "ddp"),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.stager == nil {
		client.stager = staging.New("", client.base)
	}
	return client
}

// NewFromConfig applies engine and staging settings from cfg before opts.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	defaults := []Option{WithLogger(logger)}
	if cfg != nil {
		defaults = append(defaults,
			WithBinary(cfg.Engine.Binary),
			WithTimeout(cfg.EngineTimeout()),
			WithStager(staging.New(cfg.Paths.StagingRoot, logger)),
		)
	}
	return New(append(defaults, opts...)...)
}

// Binary returns the executable the next invocation will launch.
func (c *Client) Binary() string {
	if c.binary != "" {
		return c.binary
	}
	return LocateBinary()
}

// Process runs the engine in process mode against inputPath (a directory or
// archive), which writes metadata.json and track_NN.wav files into
// outputPath. It returns the parsed metadata.json.
func (c *Client) Process(ctx context.Context, inputPath, outputPath, apiKey string) (metadata.Metadata, error) {
	op := c.begin(ctx, OperationProcess, ModeProcess, inputPath, outputPath)
	meta, err := c.process(op.ctx, inputPath, outputPath, apiKey)
	c.finish(op, meta, err)
	return meta, err
}

// ProcessFromBytes stages files into a fresh directory, runs Process against
// it, and removes the directory before returning on every path.
func (c *Client) ProcessFromBytes(ctx context.Context, files fileset.FileSet, outputPath, apiKey string) (metadata.Metadata, error) {
	input := memoryPrefix + strings.Join(files.Roles(), ",")
	op := c.begin(ctx, OperationProcessFromBytes, ModeProcess, input, outputPath)
	meta, err := staging.Within(c.stager, files, func(dir string) (metadata.Metadata, error) {
		op.logger.Debug("input staged", logging.Path(dir))
		return c.process(op.ctx, dir, outputPath, apiKey)
	})
	c.finish(op, meta, err)
	return meta, err
}

// JSONOption configures ProcessToJSON.
type JSONOption func(*jsonOptions)

type jsonOptions struct {
	outputFile string
}

// WithOutputFile asks the engine to write the document to path, which is then
// read back instead of parsing captured output.
func WithOutputFile(path string) JSONOption {
	return func(o *jsonOptions) {
		o.outputFile = path
	}
}

// ProcessToJSON runs the engine in json mode, which extracts metadata without
// writing audio. The document is parsed from captured output unless
// WithOutputFile is given.
func (c *Client) ProcessToJSON(ctx context.Context, inputPath, apiKey string, opts ...JSONOption) (metadata.Metadata, error) {
	var o jsonOptions
	for _, opt := range opts {
		opt(&o)
	}
	outputFile := ""
	if o.outputFile != "" {
		outputFile = NormalizeOutputPath(o.outputFile)
	}

	op := c.begin(ctx, OperationProcessToJSON, ModeJSON, inputPath, outputFile)
	meta, err := c.processToJSON(op.ctx, inputPath, apiKey, outputFile)
	c.finish(op, meta, err)
	return meta, err
}

func (c *Client) process(ctx context.Context, inputPath, outputPath, apiKey string) (metadata.Metadata, error) {
	outputPath = NormalizeOutputPath(outputPath)
	args := []string{string(ModeProcess), inputPath, outputPath, apiKeyFlag, apiKey}
	if _, err := c.invoke(ctx, ModeProcess, args); err != nil {
		return metadata.Metadata{}, err
	}
	return metadata.ReadDir(outputPath)
}

func (c *Client) processToJSON(ctx context.Context, inputPath, apiKey, outputFile string) (metadata.Metadata, error) {
	args := []string{string(ModeJSON), inputPath, apiKeyFlag, apiKey}
	if outputFile != "" {
		args = append(args, outputFlag, outputFile)
	}
	inv, err := c.invoke(ctx, ModeJSON, args)
	if err != nil {
		return metadata.Metadata{}, err
	}
	if outputFile != "" {
		return metadata.ReadFile(outputFile)
	}
	return metadata.Parse([]byte(inv.Output))
}

// invoke runs one engine subprocess and maps a nonzero exit to *EngineError.
func (c *Client) invoke(ctx context.Context, mode Mode, args []string) (Invocation, error) {
	binary := c.Binary()
	logger := logging.WithContext(ctx, c.logger)

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	logger.Debug("launching engine",
		logging.String("binary", binary),
		logging.String("args", strings.Join(redactArgs(args), " ")),
	)
	started := time.Now()
	inv, err := c.invoker.Invoke(runCtx, binary, args)
	elapsed := time.Since(started)
	if err != nil {
		return inv, err
	}
	if inv.ExitCode != 0 {
		logger.Debug("engine exited nonzero",
			logging.ExitCode(inv.ExitCode),
			logging.Elapsed(elapsed),
			logging.Int("output_bytes", len(inv.Output)),
		)
		return inv, &EngineError{Mode: mode, ExitCode: inv.ExitCode, Output: inv.Output}
	}
	logger.Debug("engine exited",
		logging.ExitCode(inv.ExitCode),
		logging.Elapsed(elapsed),
	)
	return inv, nil
}

// operation carries the identity of one public call between begin and finish.
type operation struct {
	ctx     context.Context
	logger  *slog.Logger
	id      string
	name    string
	input   string
	output  string
	started time.Time
}

func (c *Client) begin(ctx context.Context, name string, mode Mode, input, output string) *operation {
	if ctx == nil {
		ctx = context.Background()
	}
	id := uuid.NewString()
	ctx = services.WithInvocationID(ctx, id)
	ctx = services.WithOperation(ctx, name)
	ctx = services.WithMode(ctx, string(mode))
	op := &operation{
		ctx:     ctx,
		logger:  logging.WithContext(ctx, c.logger),
		id:      id,
		name:    name,
		input:   input,
		output:  output,
		started: time.Now(),
	}
	op.logger.Debug("engine operation started",
		logging.String("input", input),
		logging.String("output", output),
	)
	return op
}

func (c *Client) finish(op *operation, meta metadata.Metadata, err error) {
	outcome := services.Classify(err)
	elapsed := time.Since(op.started)
	if err != nil {
		op.logger.Error("engine operation failed",
			logging.Outcome(string(outcome)),
			logging.Elapsed(elapsed),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ddp_operation_failed"),
			logging.String(logging.FieldErrorHint, failureHint(outcome)),
		)
	} else {
		op.logger.Info("engine operation completed",
			logging.Tracks(meta.TrackCount()),
			logging.Elapsed(elapsed),
			logging.String(logging.FieldEventType, "ddp_operation_completed"),
		)
	}

	if c.recorder == nil {
		return
	}
	record := Record{
		ID:         op.id,
		Operation:  op.name,
		Input:      op.input,
		Output:     op.output,
		StartedAt:  op.started.UTC(),
		Duration:   elapsed,
		ExitCode:   ExitCode(err),
		Outcome:    outcome,
		TrackCount: meta.TrackCount(),
	}
	if err != nil {
		record.Error = err.Error()
	}
	// The caller's context may already be cancelled; the record still lands.
	if recErr := c.recorder.Record(context.WithoutCancel(op.ctx), record); recErr != nil {
		logging.WarnWithContext(op.logger, "failed to record engine operation", "journal_write_failed",
			logging.Error(recErr),
			logging.String(logging.FieldErrorHint, "check journal_path permissions"),
			logging.String(logging.FieldImpact, "operation missing from history"),
		)
	}
}

func failureHint(outcome services.Outcome) string {
	switch outcome {
	case services.OutcomeEngineFailure:
		return "inspect the engine output; credential and input errors are reported there"
	case services.OutcomeLaunchFailure:
		return fmt.Sprintf("install ddp or set %s to the engine path", BinaryEnv)
	case services.OutcomeInterrupted:
		return "operation was cancelled or exceeded engine.timeout_seconds"
	case services.OutcomeMetadataError:
		return "engine exited cleanly but metadata was missing or malformed"
	case services.OutcomeStagingError:
		return "check staging_root free space and permissions"
	default:
		return "check logs for details"
	}
}

// NormalizeOutputPath strips trailing forward and back slashes. A path made
// only of separators keeps its first one so the filesystem root survives.
func NormalizeOutputPath(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if trimmed == "" && path != "" {
		return path[:1]
	}
	return trimmed
}

func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == apiKeyFlag {
			out[i+1] = redactedArg
			i++
		}
	}
	return out
}
