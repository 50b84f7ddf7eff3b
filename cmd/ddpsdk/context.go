package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ddpsdk/internal/config"
	"ddpsdk/internal/journal"
	"ddpsdk/internal/logging"
	"ddpsdk/internal/services/ddp"
)

type commandContext struct {
	configFlag *string
	formatFlag *string
	apiKeyFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, formatFlag, apiKeyFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		formatFlag: formatFlag,
		apiKeyFlag: apiKeyFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath, c.configExists = resolved, exists
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logs returns the configured logger, falling back to stderr-only output
// when the log file cannot be opened.
func (c *commandContext) logs() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, OutputPaths: []string{"stderr"}})
		}
		if logger == nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) apiKey() string {
	if c.apiKeyFlag != nil {
		if key := strings.TrimSpace(*c.apiKeyFlag); key != "" {
			return key
		}
	}
	if cfg, err := c.ensureConfig(); err == nil {
		return cfg.Engine.APIKey
	}
	return ""
}

// withClient builds a client from config and, when the journal is enabled,
// records every operation it runs.
func (c *commandContext) withClient(fn func(*ddp.Client) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger := c.logs()
	var opts []ddp.Option
	if cfg.Journal.Enabled {
		store, err := journal.Open(cfg)
		if err != nil {
			logging.WarnWithContext(logger, "journal unavailable; continuing without history", "journal_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.journal_path"),
				logging.String(logging.FieldImpact, "operation will not appear in `ddpsdk history`"),
			)
		} else {
			defer store.Close()
			opts = append(opts, ddp.WithRecorder(store))
		}
	}
	return fn(ddp.NewFromConfig(cfg, logger, opts...))
}

func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return fmt.Errorf("journal disabled; set [journal] enabled = true in the config file")
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
