package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dimmer/internal/domain/entity"
)

// SignalInfo describes the system signal reading shown next to a state.
type SignalInfo struct {
	PrefersDark bool
	Source      string
}

// StateRenderer renders the theme state.
type StateRenderer struct {
	theme *Theme
}

// NewStateRenderer creates a new state renderer with the given theme.
func NewStateRenderer(theme *Theme) *StateRenderer {
	return &StateRenderer{theme: theme}
}

// ModeBadge renders the resolved mode as a badge.
func (r *StateRenderer) ModeBadge(mode entity.ColorMode) string {
	icon := IconSun
	if mode.IsDark() {
		icon = IconMoon
	}
	return r.theme.Badge.Render(icon + " " + string(mode))
}

// PreferenceLabel describes where the mode comes from.
func PreferenceLabel(state entity.ThemeState) string {
	switch {
	case !state.Stored:
		return "unset (follows system)"
	case state.Preference == entity.ThemeSystem:
		return "system"
	default:
		return string(state.Preference)
	}
}

// Render renders the state with the system signal reading.
func (r *StateRenderer) Render(state entity.ThemeState, signal SignalInfo) string {
	keyStyle := r.theme.Subtle.Width(12)
	valStyle := r.theme.Highlight
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	prefIcon := IconPin
	if state.FollowsSystem() {
		prefIcon = IconDesktop
	}

	lines := []string{
		fmt.Sprintf("%s %s %s", iconStyle.Render(IconInfo), keyStyle.Render("Mode"), r.ModeBadge(state.Mode)),
		fmt.Sprintf("%s %s %s", iconStyle.Render(prefIcon), keyStyle.Render("Preference"), valStyle.Render(PreferenceLabel(state))),
		fmt.Sprintf(
			"%s %s %s %s",
			iconStyle.Render(IconDesktop),
			keyStyle.Render("System"),
			valStyle.Render(string(entity.ModeFromDark(signal.PrefersDark))),
			r.theme.Subtle.Render("via "+signal.Source),
		),
	}

	return strings.Join(lines, "\n")
}

// RenderChange renders a one-line change notice.
func (r *StateRenderer) RenderChange(state entity.ThemeState) string {
	return fmt.Sprintf("%s %s", r.ModeBadge(state.Mode), r.theme.Subtle.Render(PreferenceLabel(state)))
}
