package config

// Default configuration constants
const (
	defaultPollIntervalMs = 5000
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// DefaultConfig returns the default configuration values for dimmer.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: StoreBackendSQLite,
			// Path is set dynamically in Load()
		},
		Signal: SignalConfig{
			Override:       ColorSchemeDefault,
			Detectors:      KnownDetectors(),
			PollIntervalMs: defaultPollIntervalMs,
		},
		RootFlag: RootFlagConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
