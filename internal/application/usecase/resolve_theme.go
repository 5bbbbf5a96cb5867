package usecase

import (
	"context"

	"github.com/bnema/dimmer/internal/application/port"
	"github.com/bnema/dimmer/internal/domain/entity"
	"github.com/bnema/dimmer/internal/domain/theme"
	"github.com/bnema/dimmer/internal/logging"
)

// ThemeResolver turns stored preferences and the system signal into a
// concrete mode and applies it to the root visual flag.
type ThemeResolver struct {
	store  *PreferenceStore
	signal port.SystemSignal
	flag   port.RootVisualFlag
}

// NewThemeResolver creates a resolver. signal and flag may be nil: a missing
// signal reads as "prefers light", a missing flag makes ApplyRootVisualFlag a no-op.
func NewThemeResolver(store *PreferenceStore, signal port.SystemSignal, flag port.RootVisualFlag) *ThemeResolver {
	return &ThemeResolver{
		store:  store,
		signal: signal,
		flag:   flag,
	}
}

// SystemPrefersDark reads the system signal.
func (r *ThemeResolver) SystemPrefersDark() bool {
	if r.signal == nil {
		return false
	}
	return r.signal.PrefersDark()
}

// ResolveActiveMode resolves pref against the live system signal.
func (r *ThemeResolver) ResolveActiveMode(pref entity.ThemePreference, ok bool) entity.ColorMode {
	return theme.ResolveActiveMode(pref, ok, r.SystemPrefersDark)
}

// Resolve reads the store and resolves the current state without side effects.
func (r *ThemeResolver) Resolve(ctx context.Context) entity.ThemeState {
	pref, ok := r.store.ReadEffective(ctx)
	return entity.ThemeState{
		Preference: pref,
		Stored:     ok,
		Mode:       r.ResolveActiveMode(pref, ok),
	}
}

// ApplyRootVisualFlag sets the root flag to mode == dark.
// Sink failures are logged and otherwise ignored.
func (r *ThemeResolver) ApplyRootVisualFlag(ctx context.Context, mode entity.ColorMode) {
	if r.flag == nil {
		return
	}

	if err := r.flag.SetDark(ctx, mode.IsDark()); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("mode", string(mode)).Msg("failed to apply root visual flag")
	}
}

// InitialState resolves the state and applies the root flag.
// Run it before the first render of any themed surface.
func (r *ThemeResolver) InitialState(ctx context.Context) entity.ThemeState {
	state := r.Resolve(ctx)
	r.ApplyRootVisualFlag(ctx, state.Mode)

	logging.FromContext(ctx).Debug().
		Str("preference", string(state.Preference)).
		Bool("stored", state.Stored).
		Str("mode", string(state.Mode)).
		Msg("initial theme computed")

	return state
}

// ComputeInitial is InitialState reduced to the resolved mode.
func (r *ThemeResolver) ComputeInitial(ctx context.Context) entity.ColorMode {
	return r.InitialState(ctx).Mode
}
