package colorscheme

import "strings"

const (
	detectorNameOverride = "override"
	priorityOverride     = 200
)

// OverrideDetector reports the color scheme forced in configuration.
// "default" and empty values fall through to the next detector.
type OverrideDetector struct {
	config ConfigProvider
}

// NewOverrideDetector creates a detector reading the configured override.
func NewOverrideDetector(config ConfigProvider) *OverrideDetector {
	return &OverrideDetector{config: config}
}

// Name implements port.ColorSchemeDetector.
func (*OverrideDetector) Name() string {
	return detectorNameOverride
}

// Priority implements port.ColorSchemeDetector.
func (*OverrideDetector) Priority() int {
	return priorityOverride
}

// Available implements port.ColorSchemeDetector.
func (d *OverrideDetector) Available() bool {
	return d.config != nil
}

// Detect implements port.ColorSchemeDetector.
func (d *OverrideDetector) Detect() (prefersDark, ok bool) {
	if d.config == nil {
		return false, false
	}
	return ParseScheme(d.config.GetColorScheme())
}

// ParseScheme maps a color scheme name to a dark preference.
// Accepts dark/light, the freedesktop prefer-dark/prefer-light names and
// 1/0 or true/false. Anything else, including "default", is not a preference.
func ParseScheme(value string) (prefersDark, ok bool) {
	switch strings.ToLower(strings.TrimSpace(strings.Trim(value, "'\""))) {
	case "dark", "prefer-dark", "1", "true":
		return true, true
	case "light", "prefer-light", "0", "false":
		return false, true
	default:
		return false, false
	}
}
