package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeEngine()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStaging()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeEngine() {
	c.Engine.Binary = strings.TrimSpace(c.Engine.Binary)
	c.Engine.APIKey = strings.TrimSpace(c.Engine.APIKey)
	if c.Engine.APIKey == "" {
		if value, ok := os.LookupEnv(apiKeyEnv); ok {
			c.Engine.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingRoot, err = expandPath(strings.TrimSpace(c.Paths.StagingRoot)); err != nil {
		return fmt.Errorf("paths.staging_root: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalPath) == "" {
		c.Paths.JournalPath = defaultJournalPath
	}
	if c.Paths.JournalPath, err = expandPath(strings.TrimSpace(c.Paths.JournalPath)); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeStaging() {
	if c.Staging.StaleAfterMinutes == 0 {
		c.Staging.StaleAfterMinutes = defaultStagingStaleMinutes
	}
}
