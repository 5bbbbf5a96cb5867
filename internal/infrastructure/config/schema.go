package config

// Config represents the complete configuration for dimmer.
type Config struct {
	// Store selects where the theme preference is persisted.
	Store StoreConfig `mapstructure:"store" toml:"store" json:"store"`
	// Signal configures how the system dark-mode signal is detected.
	Signal SignalConfig `mapstructure:"signal" toml:"signal" json:"signal"`
	// RootFlag controls publication of the resolved mode for other tools.
	RootFlag RootFlagConfig `mapstructure:"root_flag" toml:"root_flag" json:"root_flag"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging" json:"logging"`
}

// StoreBackend names a preference storage backend.
type StoreBackend string

const (
	StoreBackendSQLite StoreBackend = "sqlite"
	StoreBackendTOML   StoreBackend = "toml"
	StoreBackendMemory StoreBackend = "memory"
)

// StoreConfig holds preference storage configuration.
type StoreConfig struct {
	Backend StoreBackend `mapstructure:"backend" toml:"backend" json:"backend" jsonschema:"enum=sqlite,enum=toml,enum=memory"`
	// Path of the database or preferences file. Empty uses the XDG data directory.
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// Color scheme override values.
const (
	ColorSchemeDefault     = "default"
	ColorSchemeDark        = "dark"
	ColorSchemeLight       = "light"
	ColorSchemePreferDark  = "prefer-dark"
	ColorSchemePreferLight = "prefer-light"
)

// Detector names, matching the names reported by the color scheme detectors.
const (
	DetectorOverride  = "override"
	DetectorPortal    = "portal"
	DetectorFile      = "file"
	DetectorEnv       = "GTK_THEME"
	DetectorGsettings = "gsettings"
	DetectorTerminal  = "terminal"
)

// KnownDetectors lists every detector in priority order.
func KnownDetectors() []string {
	return []string{
		DetectorOverride,
		DetectorPortal,
		DetectorFile,
		DetectorEnv,
		DetectorGsettings,
		DetectorTerminal,
	}
}

// SignalConfig configures system color scheme detection.
type SignalConfig struct {
	// Override forces the system signal (dark, light, prefer-dark, prefer-light).
	// "default" leaves detection to the other detectors.
	Override string `mapstructure:"override" toml:"override" json:"override" jsonschema:"enum=default,enum=dark,enum=light,enum=prefer-dark,enum=prefer-light"`
	// Detectors enabled, by name.
	Detectors []string `mapstructure:"detectors" toml:"detectors" json:"detectors"`
	// File whose first line holds the scheme, used by the file detector.
	File string `mapstructure:"file" toml:"file" json:"file"`
	// PollIntervalMs re-checks detectors without push notifications. 0 disables polling.
	PollIntervalMs int `mapstructure:"poll_interval_ms" toml:"poll_interval_ms" json:"poll_interval_ms" jsonschema:"minimum=0"`
}

// DetectorEnabled reports whether name is listed in Detectors.
func (s SignalConfig) DetectorEnabled(name string) bool {
	for _, d := range s.Detectors {
		if d == name {
			return true
		}
	}
	return false
}

// RootFlagConfig controls the root-class state file.
type RootFlagConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Path of the state file. Empty uses $XDG_STATE_HOME/dimmer/root-class.
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error,enum=disabled"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
}
