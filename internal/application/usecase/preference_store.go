// Package usecase contains application use cases that orchestrate domain logic.
package usecase

import (
	"context"

	"github.com/bnema/dimmer/internal/application/port"
	"github.com/bnema/dimmer/internal/domain/entity"
	"github.com/bnema/dimmer/internal/domain/theme"
	"github.com/bnema/dimmer/internal/logging"
)

// PreferenceStore persists the theme preference and the legacy darkMode flag
// on top of a KeyValueStore. Every operation is best-effort: read failures
// come back as absent, write failures are logged and dropped.
type PreferenceStore struct {
	kv port.KeyValueStore
}

// NewPreferenceStore creates a preference store. kv may be nil, in which
// case every read is absent and every write a no-op.
func NewPreferenceStore(kv port.KeyValueStore) *PreferenceStore {
	return &PreferenceStore{kv: kv}
}

// ReadPreference returns the explicit stored preference.
// Returns false when nothing usable is stored or the backend failed.
func (s *PreferenceStore) ReadPreference(ctx context.Context) (entity.ThemePreference, bool) {
	raw, ok := s.get(ctx, entity.KeyTheme)
	if !ok {
		return "", false
	}

	pref, valid := entity.ParseThemePreference(raw)
	if !valid {
		logging.FromContext(ctx).Debug().Str("value", raw).Msg("ignoring unknown stored theme")
		return "", false
	}
	return pref, true
}

// WritePreference stores p. A successful write of dark or light also
// rewrites the legacy flag; system leaves it untouched.
func (s *PreferenceStore) WritePreference(ctx context.Context, p entity.ThemePreference) {
	log := logging.FromContext(ctx)

	if !p.Valid() {
		log.Warn().Str("preference", string(p)).Msg("refusing to store unknown theme preference")
		return
	}
	if !s.set(ctx, entity.KeyTheme, string(p)) {
		return
	}
	if p.IsExplicit() {
		s.WriteLegacyFlag(ctx, p == entity.ThemeDark)
	}

	log.Debug().Str("preference", string(p)).Msg("theme preference stored")
}

// ReadLegacyFlag returns the legacy darkMode flag.
func (s *PreferenceStore) ReadLegacyFlag(ctx context.Context) (dark, ok bool) {
	raw, found := s.get(ctx, entity.KeyDarkMode)
	if !found {
		return false, false
	}

	dark, ok = entity.ParseLegacyDarkMode(raw)
	if !ok {
		logging.FromContext(ctx).Debug().Str("value", raw).Msg("ignoring unknown legacy dark mode value")
	}
	return dark, ok
}

// WriteLegacyFlag stores the legacy darkMode flag.
func (s *PreferenceStore) WriteLegacyFlag(ctx context.Context, dark bool) {
	s.set(ctx, entity.KeyDarkMode, entity.FormatLegacyDarkMode(dark))
}

// ReadEffective applies the migration rule: explicit preference, else the
// legacy flag mapped to dark/light, else absent. The legacy flag is only
// read when no preference is stored.
func (s *PreferenceStore) ReadEffective(ctx context.Context) (entity.ThemePreference, bool) {
	if pref, ok := s.ReadPreference(ctx); ok {
		return pref, true
	}
	legacyDark, legacyOK := s.ReadLegacyFlag(ctx)
	return theme.MigratePreference("", false, legacyDark, legacyOK)
}

func (s *PreferenceStore) get(ctx context.Context, key string) (string, bool) {
	if s == nil || s.kv == nil {
		return "", false
	}

	value, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("key", key).Msg("preference store unavailable, treating as absent")
		return "", false
	}
	return value, ok
}

func (s *PreferenceStore) set(ctx context.Context, key, value string) bool {
	if s == nil || s.kv == nil {
		return false
	}

	if err := s.kv.Set(ctx, key, value); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("failed to persist preference")
		return false
	}
	return true
}
