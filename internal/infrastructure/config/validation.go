package config

import (
	"fmt"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateStore(config)...)
	validationErrors = append(validationErrors, validateSignal(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	// If there are validation errors, return them
	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}

func validateStore(config *Config) []string {
	switch config.Store.Backend {
	case StoreBackendSQLite, StoreBackendTOML, StoreBackendMemory:
		return nil
	default:
		return []string{fmt.Sprintf(
			"store.backend must be one of: sqlite, toml, memory (got: %s)",
			config.Store.Backend,
		)}
	}
}

func validateSignal(config *Config) []string {
	var validationErrors []string

	switch config.Signal.Override {
	case ColorSchemeDefault, ColorSchemeDark, ColorSchemeLight, ColorSchemePreferDark, ColorSchemePreferLight:
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"signal.override must be one of: default, dark, light, prefer-dark, prefer-light (got: %s)",
			config.Signal.Override,
		))
	}

	known := KnownDetectors()
	for _, name := range config.Signal.Detectors {
		if !containsString(known, name) {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"signal.detectors contains unknown detector %q (known: %s)",
				name, strings.Join(known, ", "),
			))
		}
	}

	if config.Signal.PollIntervalMs < 0 {
		validationErrors = append(validationErrors, "signal.poll_interval_ms must be non-negative")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "disabled", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level must be one of: trace, debug, info, warn, error, disabled (got: %s)",
			config.Logging.Level,
		))
	}
	switch config.Logging.Format {
	case "json", "console", "":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format must be one of: console, json (got: %s)",
			config.Logging.Format,
		))
	}
	return validationErrors
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
