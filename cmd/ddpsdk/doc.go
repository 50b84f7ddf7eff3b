// Command ddpsdk drives the ddp engine from the shell.
//
// It is a thin consumer of the library API in internal/services/ddp: the
// process, process-bytes and json subcommands map one-to-one onto
// Client.Process, Client.ProcessFromBytes and Client.ProcessToJSON. The
// remaining subcommands cover output verification, staging housekeeping, the
// optional invocation journal, environment checks and config scaffolding.
package main
