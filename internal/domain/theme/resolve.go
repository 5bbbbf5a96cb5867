// Package theme holds the pure theme resolution rules.
package theme

import "github.com/bnema/dimmer/internal/domain/entity"

// MigratePreference applies the storage precedence rule:
// an explicit preference wins, else the legacy flag is mapped
// (true to dark, false to light), else the result is absent.
func MigratePreference(
	pref entity.ThemePreference, prefOK bool,
	legacyDark, legacyOK bool,
) (entity.ThemePreference, bool) {
	if prefOK && pref.Valid() {
		return pref, true
	}
	if legacyOK {
		return entity.ModeFromDark(legacyDark).Preference(), true
	}
	return "", false
}

// ResolveActiveMode turns a (possibly absent) preference into a concrete mode.
// dark and light win regardless of the system signal; system and absent
// follow it. systemPrefersDark is only called when needed and may be nil,
// which reads as false.
func ResolveActiveMode(pref entity.ThemePreference, ok bool, systemPrefersDark func() bool) entity.ColorMode {
	if ok && pref.IsExplicit() {
		return entity.ModeFromDark(pref == entity.ThemeDark)
	}
	if systemPrefersDark == nil {
		return entity.ModeLight
	}
	return entity.ModeFromDark(systemPrefersDark())
}
