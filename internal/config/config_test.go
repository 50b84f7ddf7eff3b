package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"ddpsdk/internal/config"
)

func TestLoadDefaultConfigUsesEnvAPIKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("DDP_API_KEY", " env-key ")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "ddpsdk", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Engine.APIKey != "env-key" {
		t.Fatalf("expected API key from env, got %q", cfg.Engine.APIKey)
	}
	if cfg.Engine.Binary != "" {
		t.Fatalf("expected empty binary override, got %q", cfg.Engine.Binary)
	}
	if want := filepath.Join(tempHome, ".local", "share", "ddpsdk", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if cfg.Paths.StagingRoot != "" {
		t.Fatalf("expected empty staging root, got %q", cfg.Paths.StagingRoot)
	}
	if cfg.Journal.Enabled {
		t.Fatal("expected journal disabled by default")
	}
	if cfg.EngineTimeout() != 0 {
		t.Fatalf("expected no engine timeout, got %v", cfg.EngineTimeout())
	}
	if cfg.StagingStaleAfter() != 24*time.Hour {
		t.Fatalf("unexpected stale window %v", cfg.StagingStaleAfter())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.LogDir); err != nil || !info.IsDir() {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "ddpsdk.toml")

	type payload struct {
		Engine struct {
			Binary         string `toml:"binary"`
			APIKey         string `toml:"api_key"`
			TimeoutSeconds int    `toml:"timeout_seconds"`
		} `toml:"engine"`
		Paths struct {
			StagingRoot string `toml:"staging_root"`
		} `toml:"paths"`
		Journal struct {
			Enabled bool `toml:"enabled"`
		} `toml:"journal"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Engine.Binary = "/opt/ddp/bin/ddp"
	custom.Engine.APIKey = "file-key"
	custom.Engine.TimeoutSeconds = 90
	custom.Paths.StagingRoot = filepath.Join(tempDir, "staging")
	custom.Journal.Enabled = true
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DDP_API_KEY", "env-key")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be found, got %q exists=%v", resolved, exists)
	}
	if cfg.Engine.Binary != "/opt/ddp/bin/ddp" {
		t.Fatalf("unexpected binary %q", cfg.Engine.Binary)
	}
	if cfg.Engine.APIKey != "file-key" {
		t.Fatalf("file key should win over env, got %q", cfg.Engine.APIKey)
	}
	if cfg.EngineTimeout() != 90*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.EngineTimeout())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(custom.Paths.StagingRoot); err != nil {
		t.Fatalf("expected staging root created: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative timeout": "[engine]\ntimeout_seconds = -1\n",
		"bad log format":   "[logging]\nformat = \"xml\"\n",
		"bad log level":    "[logging]\nlevel = \"loud\"\n",
		"negative stale":   "[staging]\nstale_after_minutes = -5\n",
		"unknown key":      "[engine]\nbinray = \"ddp\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/ddp/out")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "ddp", "out") {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DDP_API_KEY", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(content), "[engine]") {
		t.Fatalf("sample missing engine section: %s", content)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Staging.StaleAfterMinutes != 1440 {
		t.Fatalf("unexpected stale minutes %d", cfg.Staging.StaleAfterMinutes)
	}
}
