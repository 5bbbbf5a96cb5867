package colorscheme

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	detectorNameTerminal = "terminal"
	priorityTerminal     = 5
)

// TerminalDetector reports whether the controlling terminal has a dark
// background. The terminal is queried once; later calls reuse the answer
// so polling never writes escape sequences into a running TUI.
type TerminalDetector struct {
	isTTY func() bool
	query func() bool

	once sync.Once
	dark bool
}

// NewTerminalDetector creates a detector for the process's stdout terminal.
func NewTerminalDetector() *TerminalDetector {
	return &TerminalDetector{
		isTTY: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		query: lipgloss.HasDarkBackground,
	}
}

// Name implements port.ColorSchemeDetector.
func (*TerminalDetector) Name() string {
	return detectorNameTerminal
}

// Priority implements port.ColorSchemeDetector.
func (*TerminalDetector) Priority() int {
	return priorityTerminal
}

// Available implements port.ColorSchemeDetector.
func (d *TerminalDetector) Available() bool {
	return d.isTTY()
}

// Detect implements port.ColorSchemeDetector.
func (d *TerminalDetector) Detect() (prefersDark, ok bool) {
	if !d.isTTY() {
		return false, false
	}
	d.once.Do(func() {
		d.dark = d.query()
	})
	return d.dark, true
}
