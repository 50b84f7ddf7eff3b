// Package preflight provides readiness checks for the engine binary and the
// filesystem paths ddpsdk writes into.
//
// The CLI "ddpsdk doctor" command runs RunAll and renders the results; the
// individual checks (CheckDirectoryAccess, CheckFreeSpace, CheckEngine) are
// also usable on their own before a long batch of operations.
package preflight
