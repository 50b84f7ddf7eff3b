package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ddpsdk/internal/config"
	"ddpsdk/internal/preflight"
	"ddpsdk/internal/services/ddp"
	"ddpsdk/internal/staging"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration with engine, staging and journal settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configInitTarget(targetPath)
			if err != nil {
				return err
			}
			if err := writeSampleConfig(target, overwrite); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set engine.api_key (or export DDP_API_KEY) before processing images.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

// configInitTarget resolves --path, defaulting to ~/.config/ddpsdk/config.toml.
func configInitTarget(path string) (string, error) {
	if path = strings.TrimSpace(path); path == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(path)
}

func writeSampleConfig(target string, overwrite bool) error {
	if !overwrite {
		_, err := os.Stat(target)
		switch {
		case err == nil:
			return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("check config path: %w", err)
		}
	}
	return config.CreateSample(target)
}

// configSummary is the effective configuration an operation would run with.
// The API key itself is never printed.
type configSummary struct {
	Path          string `json:"path" yaml:"path"`
	FileExists    bool   `json:"file_exists" yaml:"file_exists"`
	EngineBinary  string `json:"engine_binary" yaml:"engine_binary"`
	BinaryPinned  bool   `json:"binary_pinned" yaml:"binary_pinned"`
	APIKeySet     bool   `json:"api_key_set" yaml:"api_key_set"`
	Timeout       string `json:"timeout" yaml:"timeout"`
	StagingRoot   string `json:"staging_root" yaml:"staging_root"`
	StaleAfter    string `json:"stale_after" yaml:"stale_after"`
	JournalPath   string `json:"journal_path,omitempty" yaml:"journal_path,omitempty"`
	LogDirectory  string `json:"log_dir,omitempty" yaml:"log_dir,omitempty"`
	LoggingFormat string `json:"logging_format" yaml:"logging_format"`
}

func (c *commandContext) configSummary(cfg *config.Config) configSummary {
	summary := configSummary{
		Path:          c.configPath,
		FileExists:    c.configExists,
		EngineBinary:  preflight.EngineBinary(cfg),
		BinaryPinned:  cfg.Engine.Binary != "",
		APIKeySet:     strings.TrimSpace(c.apiKey()) != "",
		Timeout:       "none",
		StagingRoot:   staging.ResolveRoot(cfg.Paths.StagingRoot),
		StaleAfter:    cfg.StagingStaleAfter().String(),
		LogDirectory:  cfg.Paths.LogDir,
		LoggingFormat: cfg.Logging.Format + "/" + cfg.Logging.Level,
	}
	if timeout := cfg.EngineTimeout(); timeout > 0 {
		summary.Timeout = timeout.String()
	}
	if cfg.Journal.Enabled {
		summary.JournalPath = cfg.Paths.JournalPath
	}
	return summary
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and show the settings operations will use",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			summary := ctx.configSummary(cfg)
			if handled, err := ctx.writeStructured(cmd, summary); handled {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			source := summary.Path
			if !summary.FileExists {
				source += " (not found, defaults used)"
			}
			binary := summary.EngineBinary
			if !summary.BinaryPinned {
				binary += " (from $" + ddp.BinaryEnv + " or PATH)"
			}
			keyKind := statusOK
			if !summary.APIKeySet {
				keyKind = statusError
			}
			fmt.Fprintln(out, renderSectionHeader("Configuration"))
			fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, source, colorize))
			fmt.Fprintln(out, renderStatusLine("Engine binary", statusInfo, binary, colorize))
			fmt.Fprintln(out, renderStatusLine("API key set", keyKind, yesNo(summary.APIKeySet), colorize))
			fmt.Fprintln(out, renderStatusLine("Engine timeout", statusInfo, summary.Timeout, colorize))
			fmt.Fprintln(out, renderStatusLine("Staging root", statusInfo, summary.StagingRoot, colorize))
			fmt.Fprintln(out, renderStatusLine("Journal", statusInfo, yesNo(summary.JournalPath != ""), colorize))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
