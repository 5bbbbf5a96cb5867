package colorscheme

import (
	"os"
	"strings"
)

const (
	detectorNameEnv = "GTK_THEME"
	priorityEnv     = 20
)

// EnvDetector detects color scheme from GTK_THEME environment variable.
// This is useful when users explicitly set their theme via environment.
type EnvDetector struct {
	lookup func(string) string
}

// NewEnvDetector creates a new environment variable-based detector.
func NewEnvDetector() *EnvDetector {
	return &EnvDetector{lookup: os.Getenv}
}

// Name implements port.ColorSchemeDetector.
func (*EnvDetector) Name() string {
	return detectorNameEnv
}

// Priority implements port.ColorSchemeDetector.
func (*EnvDetector) Priority() int {
	return priorityEnv
}

// Available implements port.ColorSchemeDetector.
// Returns true if GTK_THEME environment variable is set.
func (d *EnvDetector) Available() bool {
	return d.lookup("GTK_THEME") != ""
}

// Detect implements port.ColorSchemeDetector.
// Checks if GTK_THEME contains "dark" (case-insensitive).
func (d *EnvDetector) Detect() (prefersDark, ok bool) {
	gtkTheme := d.lookup("GTK_THEME")
	if gtkTheme == "" {
		return false, false
	}

	// A theme variant like "Adwaita:dark" or "Breeze-Dark" means dark;
	// any other named theme is taken as light.
	prefersDark = strings.Contains(strings.ToLower(gtkTheme), "dark")
	return prefersDark, true
}
