package entity

import "strings"

// ThemePreference is the user's explicit theme choice.
type ThemePreference string

// Theme preference values as persisted under KeyTheme.
const (
	ThemeDark   ThemePreference = "dark"
	ThemeLight  ThemePreference = "light"
	ThemeSystem ThemePreference = "system"
)

// Storage keys shared by every preference backend.
const (
	KeyTheme    = "theme"
	KeyDarkMode = "darkMode"
)

// ParseThemePreference parses a stored or user-supplied preference.
// Returns false for anything outside dark/light/system.
func ParseThemePreference(s string) (ThemePreference, bool) {
	switch p := ThemePreference(strings.ToLower(strings.TrimSpace(s))); p {
	case ThemeDark, ThemeLight, ThemeSystem:
		return p, true
	default:
		return "", false
	}
}

// Valid reports whether p is one of the known preferences.
func (p ThemePreference) Valid() bool {
	_, ok := ParseThemePreference(string(p))
	return ok
}

// IsExplicit reports whether p pins a concrete mode (dark or light).
func (p ThemePreference) IsExplicit() bool {
	return p == ThemeDark || p == ThemeLight
}

func (p ThemePreference) String() string {
	return string(p)
}

// ColorMode is the resolved, always concrete visual mode.
type ColorMode string

// Resolved color modes.
const (
	ModeDark  ColorMode = "dark"
	ModeLight ColorMode = "light"
)

// ModeFromDark maps a dark boolean to a ColorMode.
func ModeFromDark(dark bool) ColorMode {
	if dark {
		return ModeDark
	}
	return ModeLight
}

// IsDark reports whether the mode is dark.
func (m ColorMode) IsDark() bool {
	return m == ModeDark
}

// Opposite returns the other mode.
func (m ColorMode) Opposite() ColorMode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// Preference returns the explicit preference that pins this mode.
func (m ColorMode) Preference() ThemePreference {
	if m == ModeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (m ColorMode) String() string {
	return string(m)
}

// ParseLegacyDarkMode decodes the legacy darkMode value ("true"/"false").
func ParseLegacyDarkMode(s string) (dark, ok bool) {
	switch strings.TrimSpace(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// FormatLegacyDarkMode encodes a legacy darkMode value.
func FormatLegacyDarkMode(dark bool) string {
	if dark {
		return "true"
	}
	return "false"
}

// ThemeState is the controller's view of the theme at a point in time.
type ThemeState struct {
	// Preference is the effective stored preference.
	// Empty when Stored is false.
	Preference ThemePreference
	// Stored is false when no preference (nor legacy flag) was found.
	Stored bool
	// Mode is the resolved color mode.
	Mode ColorMode
}

// FollowsSystem reports whether the mode tracks the system signal.
func (s ThemeState) FollowsSystem() bool {
	return !s.Stored || s.Preference == ThemeSystem
}
