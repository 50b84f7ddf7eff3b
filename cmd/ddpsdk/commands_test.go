package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ddpsdk/internal/services"
	"ddpsdk/internal/services/ddp"
	"ddpsdk/internal/testsupport"
)

func TestUnsupportedFormatRejected(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"--format", "xml", "doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected format error")
	}
	requireContains(t, err.Error(), "unsupported --format")
}

func TestStagingListAndClean(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"--format", "json", "staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, stdout, `"directories": []`)

	stale := filepath.Join(env.cfg.Paths.StagingRoot, "ddp-in-abandoned")
	testsupport.WriteFile(t, filepath.Join(stale, "SD.SD"), 16)
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"--format", "json", "staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, stdout, "ddp-in-abandoned")

	stdout, _, err = runCLI(t, []string{"--format", "json", "staging", "clean", "--max-age", "1h"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean: %v", err)
	}
	var summary stagingCleanSummary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if len(summary.Removed) != 1 || len(summary.Errors) != 0 {
		t.Fatalf("unexpected clean summary: %+v", summary)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale directory removed, stat err=%v", err)
	}
}

func TestHistoryRequiresJournal(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil {
		t.Fatal("expected error when journal disabled")
	}
	requireContains(t, err.Error(), "journal disabled")
}

func TestHistoryListsRecordedInvocations(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithJournal())
	input := filepath.Join(env.baseDir, "image")
	testsupport.WriteDDPInput(t, input, "DISC-HISTORY")

	if _, _, err := runCLI(t, []string{"--format", "json", "json", input}, env.configPath); err != nil {
		t.Fatalf("json: %v", err)
	}
	_, _, err := runCLI(t, []string{"--format", "json", "--api-key", testsupport.InvalidKey, "json", input}, env.configPath)
	var engineErr *ddp.EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("expected engine error, got %v", err)
	}

	stdout, _, err := runCLI(t, []string{"--format", "json", "history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var entries []historyEntry
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Outcome != string(services.OutcomeEngineFailure) || entries[0].ExitCode != testsupport.InvalidKeyExitCode {
		t.Fatalf("unexpected newest entry: %+v", entries[0])
	}
	if entries[1].Operation != ddp.OperationProcessToJSON || entries[1].Outcome != string(services.OutcomeSucceeded) || entries[1].TrackCount != 2 {
		t.Fatalf("unexpected oldest entry: %+v", entries[1])
	}

	stdout, _, err = runCLI(t, []string{"--format", "json", "history", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("history --limit: %v", err)
	}
	entries = nil
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestDoctorReportsMissingEngine(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Engine.Binary = filepath.Join(env.baseDir, "no-such-ddp")
	writeTestConfig(t, env.configPath, env.cfg)

	stdout, _, err := runCLI(t, []string{"--format", "json", "doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor failure")
	}
	var report doctorReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if report.Healthy {
		t.Fatal("expected unhealthy report")
	}
	if len(report.Checks) == 0 || report.Checks[0].Name != "ddp engine" || report.Checks[0].Passed {
		t.Fatalf("unexpected engine check: %+v", report.Checks)
	}
}

func TestDoctorTableOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, _ := runCLI(t, []string{"--format", "table", "doctor"}, env.configPath)
	requireContains(t, stdout, "== Checks ==")
	requireContains(t, stdout, "ddp engine:")
	requireContains(t, stdout, "[OK]")
	requireContains(t, stdout, "checks passed")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "generated", "config.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, "Wrote sample configuration")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	stdout, _, err = runCLI(t, []string{"--format", "table", "config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout, "Configuration valid")
	requireContains(t, stdout, "API key set:")
	requireContains(t, stdout, "[OK] yes")
}

func TestConfigValidateStructuredSummary(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"--format", "json", "config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	var summary configSummary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if !summary.FileExists || !summary.APIKeySet || !summary.BinaryPinned {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.EngineBinary != env.cfg.Engine.Binary {
		t.Fatalf("engine binary = %q, want %q", summary.EngineBinary, env.cfg.Engine.Binary)
	}
	if summary.StagingRoot != env.cfg.Paths.StagingRoot {
		t.Fatalf("staging root = %q, want %q", summary.StagingRoot, env.cfg.Paths.StagingRoot)
	}
	if strings.Contains(stdout, testsupport.ValidKey) {
		t.Fatal("summary leaked the API key")
	}
}

func TestConfigValidateReportsMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.baseDir, "absent.toml")

	stdout, _, err := runCLI(t, []string{"--format", "json", "--api-key", "k", "config", "validate"}, missing)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	var summary configSummary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("decode %q: %v", stdout, err)
	}
	if summary.FileExists || summary.Path != missing {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !summary.APIKeySet || summary.BinaryPinned {
		t.Fatalf("unexpected engine settings: %+v", summary)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "engine status", err: &ddp.EngineError{Mode: ddp.ModeProcess, ExitCode: 5}, want: 5},
		{name: "signalled engine", err: &ddp.EngineError{Mode: ddp.ModeProcess, ExitCode: -1}, want: 1},
		{name: "other", err: errors.New("boom"), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("exitCode = %d, want %d", got, tt.want)
			}
		})
	}
}
