package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateXDG points every XDG base directory into a temp dir.
func isolateXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	return root
}

func TestManager_LoadCreatesDefaultConfig(t *testing.T) {
	root := isolateXDG(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	configFile := filepath.Join(root, "config", "dimmer", "config.toml")
	assert.FileExists(t, configFile)

	cfg := mgr.Get()
	assert.Equal(t, StoreBackendSQLite, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(root, "data", "dimmer", "dimmer.sqlite"), cfg.Store.Path)
	assert.Equal(t, filepath.Join(root, "state", "dimmer", "root-class"), cfg.RootFlag.Path)
	assert.Equal(t, KnownDetectors(), cfg.Signal.Detectors)
}

func TestManager_LoadReadsFileAndEnv(t *testing.T) {
	root := isolateXDG(t)
	configFile := filepath.Join(root, "custom.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
[store]
backend = "toml"

[signal]
override = "prefer-light"
detectors = ["override", "portal"]
poll_interval_ms = 0

[root_flag]
enabled = false
`), 0o600))
	t.Setenv("DIMMER_LOG_LEVEL", "debug")

	mgr, err := NewManager(WithConfigFile(configFile))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, configFile, mgr.GetConfigFile())
	assert.Equal(t, StoreBackendTOML, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(root, "data", "dimmer", "preferences.toml"), cfg.Store.Path)
	assert.Equal(t, ColorSchemePreferLight, cfg.Signal.Override)
	assert.Equal(t, []string{"override", "portal"}, cfg.Signal.Detectors)
	assert.Zero(t, cfg.Signal.PollIntervalMs)
	assert.False(t, cfg.RootFlag.Enabled)
	assert.Empty(t, cfg.RootFlag.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestManager_MissingExplicitFileFails(t *testing.T) {
	root := isolateXDG(t)

	mgr, err := NewManager(WithConfigFile(filepath.Join(root, "nope.toml")))
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestManager_InvalidFileFailsValidation(t *testing.T) {
	root := isolateXDG(t)
	configFile := filepath.Join(root, "bad.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[store]\nbackend = \"redis\"\n"), 0o600))

	mgr, err := NewManager(WithConfigFile(configFile))
	require.NoError(t, err)

	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.backend")
}

func TestManager_GetReturnsCopy(t *testing.T) {
	isolateXDG(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	cfg.Signal.Detectors[0] = "mutated"
	cfg.Store.Backend = StoreBackendMemory

	again := mgr.Get()
	assert.Equal(t, DetectorOverride, again.Signal.Detectors[0])
	assert.Equal(t, StoreBackendSQLite, again.Store.Backend)
}

func TestManager_GetBeforeLoadReturnsDefaults(t *testing.T) {
	isolateXDG(t)

	mgr, err := NewManager()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestManager_WatchReloadsOnChange(t *testing.T) {
	root := isolateXDG(t)
	configFile := filepath.Join(root, "watched.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[signal]\noverride = \"default\"\n"), 0o600))

	mgr, err := NewManager(WithConfigFile(configFile))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	changes := make(chan *Config, 4)
	mgr.OnConfigChange(func(cfg *Config) {
		select {
		case changes <- cfg:
		default:
		}
	})
	require.NoError(t, mgr.Watch())
	require.NoError(t, mgr.Watch())

	require.NoError(t, os.WriteFile(configFile, []byte("[signal]\noverride = \"dark\"\n"), 0o600))

	select {
	case cfg := <-changes:
		assert.Equal(t, ColorSchemeDark, cfg.Signal.Override)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
	assert.Equal(t, ColorSchemeDark, mgr.Get().Signal.Override)
}
