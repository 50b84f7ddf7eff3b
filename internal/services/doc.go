// Package services defines shared utilities consumed by the engine client and
// the command line front end.
//
// Key responsibilities:
//   - Context helpers that stamp invocation IDs and engine modes for logging
//     and journaling.
//   - Structured error markers plus the Wrap helper so callers can tell an
//     engine rejection apart from a launch failure or an unusable result.
//   - Classify, which maps any orchestration error to a stable outcome label.
//
// Use these helpers when wiring new engine operations so failure reporting
// stays uniform across the library and the CLI.
package services
