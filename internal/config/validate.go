package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateStaging(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateEngine() error {
	if c.Engine.TimeoutSeconds < 0 {
		return errors.New("engine.timeout_seconds must be zero or positive")
	}
	if c.Engine.TimeoutSeconds > maxEngineTimeoutSeconds {
		return fmt.Errorf("engine.timeout_seconds must not exceed %d", maxEngineTimeoutSeconds)
	}
	return nil
}

func (c *Config) validateStaging() error {
	if c.Staging.StaleAfterMinutes < 0 {
		return errors.New("staging.stale_after_minutes must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
