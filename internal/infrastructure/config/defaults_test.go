package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, ColorSchemeDefault, cfg.Signal.Override)
	assert.Equal(t, KnownDetectors(), cfg.Signal.Detectors)
	assert.Equal(t, 5000, cfg.Signal.PollIntervalMs)
	assert.True(t, cfg.RootFlag.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	require.NoError(t, validateConfig(cfg))
}

func TestSetDefaults(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	assert.Equal(t, "sqlite", mgr.viper.GetString("store.backend"))
	assert.Equal(t, "default", mgr.viper.GetString("signal.override"))
	assert.Equal(t, KnownDetectors(), mgr.viper.GetStringSlice("signal.detectors"))
	assert.True(t, mgr.viper.GetBool("root_flag.enabled"))
}

func TestSignalConfig_DetectorEnabled(t *testing.T) {
	s := SignalConfig{Detectors: []string{DetectorPortal, DetectorEnv}}

	assert.True(t, s.DetectorEnabled(DetectorPortal))
	assert.True(t, s.DetectorEnabled("GTK_THEME"))
	assert.False(t, s.DetectorEnabled(DetectorTerminal))
}
