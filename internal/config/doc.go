// Package config loads, normalizes, and validates ddpsdk configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the DDP_API_KEY environment
// fallback. The engine binary is deliberately not resolved here: the
// DDP_SDK_BIN override is read per invocation by the engine client.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
