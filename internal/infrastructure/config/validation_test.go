package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "toml backend", mutate: func(c *Config) { c.Store.Backend = StoreBackendTOML }},
		{name: "memory backend", mutate: func(c *Config) { c.Store.Backend = StoreBackendMemory }},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "redis" }, wantErr: "store.backend"},
		{name: "dark override", mutate: func(c *Config) { c.Signal.Override = ColorSchemePreferDark }},
		{name: "bad override", mutate: func(c *Config) { c.Signal.Override = "sepia" }, wantErr: "signal.override"},
		{name: "no detectors", mutate: func(c *Config) { c.Signal.Detectors = nil }},
		{name: "unknown detector", mutate: func(c *Config) { c.Signal.Detectors = []string{"kde"} }, wantErr: "signal.detectors"},
		{name: "negative poll", mutate: func(c *Config) { c.Signal.PollIntervalMs = -1 }, wantErr: "signal.poll_interval_ms"},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateConfig_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Backend = "redis"
	cfg.Logging.Level = "loud"

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestNormalizeConfig(t *testing.T) {
	cfg := &Config{
		Store:   StoreConfig{Backend: " TOML ", Path: "  /tmp/p.toml "},
		Signal:  SignalConfig{Override: "Prefer-Dark"},
		Logging: LoggingConfig{Level: "DEBUG", Format: "text"},
	}

	normalizeConfig(cfg)

	assert.Equal(t, StoreBackendTOML, cfg.Store.Backend)
	assert.Equal(t, "/tmp/p.toml", cfg.Store.Path)
	assert.Equal(t, ColorSchemePreferDark, cfg.Signal.Override)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	empty := &Config{}
	normalizeConfig(empty)
	assert.Equal(t, StoreBackendSQLite, empty.Store.Backend)
	assert.Equal(t, ColorSchemeDefault, empty.Signal.Override)
}
