// Package ddp drives the external ddp engine binary.
//
// The engine owns every piece of domain logic: DDP parsing, audio extraction
// and API key validation. This package only resolves the binary, launches it
// with the right arguments, captures its combined stdout/stderr stream, maps
// the exit status to an error, and reads the metadata document it writes.
//
// Key types:
//   - Client: the three public operations (Process, ProcessFromBytes, ProcessToJSON)
//   - Invoker: subprocess seam; CommandInvoker is the os/exec implementation
//   - EngineError / LaunchError: the engine's own failure vs. failure to run it
//   - Recorder: optional sink for one Record per finished operation
//
// Prefer this package over ad-hoc exec.Command usage so staging cleanup,
// timeouts and error mapping stay consistent.
package ddp
