// Package config loads, validates and watches the dimmer configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool

	// explicitFile is set when the config path was given by the user;
	// a missing explicit file is an error instead of being created.
	explicitFile bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithConfigFile reads the configuration from path instead of the XDG location.
func WithConfigFile(path string) ManagerOption {
	return func(m *Manager) {
		if path == "" {
			return
		}
		m.viper.SetConfigFile(path)
		m.explicitFile = true
	}
}

// NewManager creates a new configuration manager.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	v := viper.New()

	// Configure Viper for TOML as default format
	v.SetConfigName("config") // Name without extension
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)

	// Environment variables use the DIMMER_ prefix (e.g. DIMMER_STORE_BACKEND,
	// DIMMER_SIGNAL_OVERRIDE). The bindings below cover names that don't
	// follow the section_key pattern.
	v.SetEnvPrefix("DIMMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "DIMMER_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind DIMMER_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "DIMMER_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind DIMMER_LOG_FORMAT: %w", err)
	}

	m := &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Load loads the configuration from file and environment variables.
// A missing default config file is created with default values.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.buildConfig()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var configFileNotFoundError viper.ConfigFileNotFoundError
	notFound := errors.As(err, &configFileNotFoundError) || errors.Is(err, fs.ErrNotExist)
	if !notFound {
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", m.configPath(), err)
	}
	if m.explicitFile {
		return fmt.Errorf("config file %s does not exist", m.configPath())
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf("failed to create default config at %s: %w\nTry creating the directory manually or check permissions", m.configPath(), createErr)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// buildConfig unmarshals, resolves paths, normalizes and validates.
func (m *Manager) buildConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}

	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := resolvePaths(config); err != nil {
		return nil, err
	}
	return config, nil
}

func normalizeConfig(config *Config) {
	config.Store.Backend = StoreBackend(strings.ToLower(strings.TrimSpace(string(config.Store.Backend))))
	if config.Store.Backend == "" {
		config.Store.Backend = StoreBackendSQLite
	}
	config.Store.Path = strings.TrimSpace(config.Store.Path)

	config.Signal.Override = strings.ToLower(strings.TrimSpace(config.Signal.Override))
	if config.Signal.Override == "" {
		config.Signal.Override = ColorSchemeDefault
	}
	config.Signal.File = strings.TrimSpace(config.Signal.File)

	config.RootFlag.Path = strings.TrimSpace(config.RootFlag.Path)

	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "text" {
		config.Logging.Format = defaultLogFormat
	}
}

// resolvePaths fills empty paths with their XDG locations.
func resolvePaths(config *Config) error {
	if config.Store.Path == "" {
		var (
			path string
			err  error
		)
		switch config.Store.Backend {
		case StoreBackendSQLite:
			path, err = GetDatabaseFile()
		case StoreBackendTOML:
			path, err = GetPreferencesFile()
		}
		if err != nil {
			return fmt.Errorf("failed to get store path: %w", err)
		}
		config.Store.Path = path
	}

	if config.RootFlag.Enabled && config.RootFlag.Path == "" {
		path, err := GetRootClassFile()
		if err != nil {
			return fmt.Errorf("failed to get root class path: %w", err)
		}
		config.RootFlag.Path = path
	}
	return nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent external modification
	configCopy := *m.config
	configCopy.Signal.Detectors = append([]string(nil), m.config.Signal.Detectors...)
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) configPath() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	path, err := GetConfigFile()
	if err != nil {
		return "config.toml"
	}
	return path
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile := m.configPath()

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}
	if err := WriteConfigOrdered(DefaultConfig(), configFile); err != nil {
		return err
	}

	m.viper.SetConfigFile(configFile)
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Note: store.path and root_flag.path are resolved in Load(), no defaults needed
	m.viper.SetDefault("store.backend", string(defaults.Store.Backend))
	m.viper.SetDefault("store.path", "")

	m.viper.SetDefault("signal.override", defaults.Signal.Override)
	m.viper.SetDefault("signal.detectors", defaults.Signal.Detectors)
	m.viper.SetDefault("signal.file", defaults.Signal.File)
	m.viper.SetDefault("signal.poll_interval_ms", defaults.Signal.PollIntervalMs)

	m.viper.SetDefault("root_flag.enabled", defaults.RootFlag.Enabled)
	m.viper.SetDefault("root_flag.path", "")

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
}
