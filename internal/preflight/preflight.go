package preflight

import (
	"path/filepath"

	"ddpsdk/internal/config"
	"ddpsdk/internal/services/ddp"
	"ddpsdk/internal/staging"
)

// MinStagingFreeBytes is the free space wanted under the staging root. DDP
// images for a full audio CD run to roughly 800 MiB.
const MinStagingFreeBytes uint64 = 1 << 30

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Detail string `json:"detail" yaml:"detail"`
}

// EngineBinary returns the executable an operation built from cfg launches.
func EngineBinary(cfg *config.Config) string {
	if cfg != nil && cfg.Engine.Binary != "" {
		return cfg.Engine.Binary
	}
	return ddp.LocateBinary()
}

// RunAll executes every applicable preflight check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	root := staging.ResolveRoot(cfg.Paths.StagingRoot)
	results := []Result{
		CheckEngine(EngineBinary(cfg)),
		CheckAPIKey(cfg.Engine.APIKey),
		CheckDirectoryAccess("Staging root", root),
		CheckFreeSpace("Staging free space", root, MinStagingFreeBytes),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Journal.Enabled {
		results = append(results, CheckDirectoryAccess("Journal directory", filepath.Dir(cfg.Paths.JournalPath)))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
