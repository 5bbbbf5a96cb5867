package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PathEntry is one labeled path shown by the config renderer.
type PathEntry struct {
	Label string
	Path  string
	Note  string
}

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderPaths renders the files dimmer reads and writes.
func (r *ConfigRenderer) RenderPaths(entries []PathEntry) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	labelStyle := r.theme.Normal.Width(12)
	pathStyle := r.theme.Subtle

	var sb strings.Builder
	sb.WriteString("\n")
	for _, e := range entries {
		line := fmt.Sprintf("  %s %s %s", iconStyle.Render(IconConfig), labelStyle.Render(e.Label), pathStyle.Render(e.Path))
		if e.Note != "" {
			line += " " + r.theme.BadgeMuted.Render(e.Note)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// RenderCreated renders the message after a file was written.
func (r *ConfigRenderer) RenderCreated(what, path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)

	return fmt.Sprintf(
		"\n  %s %s written to %s\n",
		iconStyle.Render(IconCheck),
		what,
		r.theme.Subtle.Render(path),
	)
}

// RenderExists renders the message when init finds an existing config file.
func (r *ConfigRenderer) RenderExists(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	return fmt.Sprintf(
		"\n  %s Config %s\n  %s\n",
		iconStyle.Render(IconConfig),
		r.theme.Subtle.Render(path),
		r.theme.Subtle.Render("Config file already exists. Use --force to overwrite it with defaults."),
	)
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	return fmt.Sprintf(
		"\n  %s Config error: %v\n",
		iconStyle.Render(IconX),
		err,
	)
}
