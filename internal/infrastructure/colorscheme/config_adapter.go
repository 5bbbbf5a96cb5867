package colorscheme

import (
	"github.com/bnema/dimmer/internal/infrastructure/config"
)

// ConfigProvider provides access to the color scheme override.
type ConfigProvider interface {
	// GetColorScheme returns the configured override.
	// Expected values: "", "default", "prefer-dark", "prefer-light", "dark", "light"
	GetColorScheme() string
}

// ConfigAdapter adapts the live configuration to the ConfigProvider interface.
// It reads through the manager so reloaded files are picked up.
type ConfigAdapter struct {
	manager *config.Manager
}

// NewConfigAdapter creates a new config adapter.
func NewConfigAdapter(manager *config.Manager) *ConfigAdapter {
	return &ConfigAdapter{manager: manager}
}

// GetColorScheme implements ConfigProvider.
func (a *ConfigAdapter) GetColorScheme() string {
	if a == nil || a.manager == nil {
		return ""
	}
	cfg := a.manager.Get()
	if cfg == nil {
		return ""
	}
	return cfg.Signal.Override
}
