package colorscheme

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/dimmer/internal/application/port"
	"github.com/bnema/dimmer/internal/logging"
)

const (
	detectorNamePortal = "portal"
	priorityPortal     = 100

	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalInterface = "org.freedesktop.portal.Settings"

	appearanceNamespace = "org.freedesktop.appearance"
	colorSchemeKey      = "color-scheme"

	// color-scheme values of org.freedesktop.appearance
	portalNoPreference = 0
	portalPreferDark   = 1
	portalPreferLight  = 2
)

// Compile-time interface checks.
var (
	_ port.ColorSchemeDetector = (*PortalDetector)(nil)
	_ port.ColorSchemeWatcher  = (*PortalDetector)(nil)
)

// PortalDetector reads org.freedesktop.appearance color-scheme from the
// XDG Desktop Portal and watches its SettingChanged signal.
// This works on Wayland and X11 with any portal backend (GNOME, KDE, wlroots).
type PortalDetector struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewPortalDetector connects to the session bus.
// Returns a detector even if D-Bus is unavailable (graceful degradation).
func NewPortalDetector(ctx context.Context) *PortalDetector {
	log := logging.FromContext(ctx)

	detector := &PortalDetector{}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Debug().Err(err).Msg("color scheme portal: cannot connect to D-Bus session bus")
		return detector
	}
	detector.conn = conn

	if _, ok := detector.Detect(); !ok {
		log.Debug().Msg("color scheme portal: appearance setting not available")
	}
	return detector
}

// Name implements port.ColorSchemeDetector.
func (*PortalDetector) Name() string {
	return detectorNamePortal
}

// Priority implements port.ColorSchemeDetector.
func (*PortalDetector) Priority() int {
	return priorityPortal
}

// Available implements port.ColorSchemeDetector.
func (p *PortalDetector) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// Detect implements port.ColorSchemeDetector.
// A portal answering "no preference" does not count as a detection.
func (p *PortalDetector) Detect() (prefersDark, ok bool) {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil {
		return false, false
	}

	obj := conn.Object(portalDest, portalPath)

	// ReadOne(namespace: s, key: s) -> value: v
	var value dbus.Variant
	err := obj.Call(portalInterface+".ReadOne", 0, appearanceNamespace, colorSchemeKey).Store(&value)
	if err != nil {
		// Older portals only have the deprecated Read, which wraps the value twice.
		err = obj.Call(portalInterface+".Read", 0, appearanceNamespace, colorSchemeKey).Store(&value)
		if err != nil {
			return false, false
		}
	}

	scheme, ok := colorSchemeValue(value)
	if !ok {
		return false, false
	}
	return schemeToDark(scheme)
}

// Watch implements port.ColorSchemeWatcher.
func (p *PortalDetector) Watch(ctx context.Context, changed func()) error {
	log := logging.FromContext(ctx)

	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("color scheme portal: no D-Bus connection")
	}

	matchOpts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(portalPath),
		dbus.WithMatchInterface(portalInterface),
		dbus.WithMatchMember("SettingChanged"),
	}
	if err := conn.AddMatchSignal(matchOpts...); err != nil {
		return fmt.Errorf("color scheme portal: add signal match: %w", err)
	}

	signals := make(chan *dbus.Signal, 8)
	conn.Signal(signals)

	defer func() {
		conn.RemoveSignal(signals)
		_ = conn.RemoveMatchSignal(matchOpts...)
	}()

	for {
		select {
		case sig := <-signals:
			if sig == nil {
				return nil
			}
			if !isColorSchemeChange(sig) {
				continue
			}
			log.Debug().Msg("color scheme portal: setting changed")
			changed()
		case <-ctx.Done():
			return nil
		}
	}
}

// Close releases the D-Bus connection.
func (p *PortalDetector) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

// isColorSchemeChange reports whether sig is
// SettingChanged(org.freedesktop.appearance, color-scheme, value).
func isColorSchemeChange(sig *dbus.Signal) bool {
	if sig.Name != portalInterface+".SettingChanged" || len(sig.Body) < 2 {
		return false
	}
	namespace, _ := sig.Body[0].(string)
	key, _ := sig.Body[1].(string)
	return namespace == appearanceNamespace && key == colorSchemeKey
}

// colorSchemeValue unwraps nested variants down to the uint32 scheme.
func colorSchemeValue(v dbus.Variant) (uint32, bool) {
	value := v.Value()
	for {
		inner, ok := value.(dbus.Variant)
		if !ok {
			break
		}
		value = inner.Value()
	}
	scheme, ok := value.(uint32)
	return scheme, ok
}

func schemeToDark(scheme uint32) (prefersDark, ok bool) {
	switch scheme {
	case portalPreferDark:
		return true, true
	case portalPreferLight:
		return false, true
	case portalNoPreference:
		return false, false
	default:
		return false, false
	}
}
