package config

const (
	defaultConfigPath           = "~/.config/ddpsdk/config.toml"
	defaultLogDir               = "~/.local/share/ddpsdk/logs"
	defaultJournalPath          = "~/.local/share/ddpsdk/journal.db"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultStagingStaleMinutes  = 24 * 60
	defaultEngineTimeoutSeconds = 0
	maxEngineTimeoutSeconds     = 24 * 60 * 60
	apiKeyEnv                   = "DDP_API_KEY"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Engine: Engine{
			TimeoutSeconds: defaultEngineTimeoutSeconds,
		},
		Paths: Paths{
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
		},
		Staging: Staging{
			StaleAfterMinutes: defaultStagingStaleMinutes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
