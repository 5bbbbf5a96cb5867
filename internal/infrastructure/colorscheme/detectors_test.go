package colorscheme

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheme(t *testing.T) {
	tests := []struct {
		input    string
		wantDark bool
		wantOk   bool
	}{
		{"dark", true, true},
		{"prefer-dark", true, true},
		{"'prefer-dark'\n", true, true},
		{"  DARK ", true, true},
		{"1", true, true},
		{"light", false, true},
		{"prefer-light", false, true},
		{"false", false, true},
		{"default", false, false},
		{"", false, false},
		{"solarized", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dark, ok := ParseScheme(tt.input)
			assert.Equal(t, tt.wantDark, dark)
			assert.Equal(t, tt.wantOk, ok)
		})
	}
}

func TestEnvDetector(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		wantAvailable bool
		wantDark      bool
		wantOk        bool
	}{
		{name: "unset", value: ""},
		{name: "dark variant", value: "Adwaita:dark", wantAvailable: true, wantDark: true, wantOk: true},
		{name: "dark in name", value: "Breeze-Dark", wantAvailable: true, wantDark: true, wantOk: true},
		{name: "light theme", value: "Adwaita", wantAvailable: true, wantDark: false, wantOk: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &EnvDetector{lookup: func(string) string { return tt.value }}

			assert.Equal(t, tt.wantAvailable, d.Available())
			dark, ok := d.Detect()
			assert.Equal(t, tt.wantDark, dark)
			assert.Equal(t, tt.wantOk, ok)
		})
	}

	assert.Equal(t, "GTK_THEME", NewEnvDetector().Name())
	assert.Equal(t, 20, NewEnvDetector().Priority())
}

func TestGsettingsDetector_Detect(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		err      error
		wantDark bool
		wantOk   bool
	}{
		{name: "prefer-dark", output: "'prefer-dark'\n", wantDark: true, wantOk: true},
		{name: "prefer-light", output: "'prefer-light'\n", wantDark: false, wantOk: true},
		{name: "default", output: "'default'\n", wantOk: false},
		{name: "command failure", err: errors.New("no schema"), wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &GsettingsDetector{run: func(context.Context) ([]byte, error) {
				return []byte(tt.output), tt.err
			}}

			dark, ok := d.Detect()
			assert.Equal(t, tt.wantDark, dark)
			assert.Equal(t, tt.wantOk, ok)
		})
	}
}

func TestTerminalDetector(t *testing.T) {
	var queries int
	d := &TerminalDetector{
		isTTY: func() bool { return true },
		query: func() bool { queries++; return true },
	}

	assert.True(t, d.Available())
	for i := 0; i < 3; i++ {
		dark, ok := d.Detect()
		assert.True(t, dark)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, queries, "terminal must be queried once")

	notTTY := &TerminalDetector{
		isTTY: func() bool { return false },
		query: func() bool { t.Fatal("queried without a terminal"); return false },
	}
	assert.False(t, notTTY.Available())
	_, ok := notTTY.Detect()
	assert.False(t, ok)
}

func TestOverrideDetector(t *testing.T) {
	d := NewOverrideDetector(&mockConfigProvider{scheme: "prefer-light"})

	assert.Equal(t, "override", d.Name())
	assert.Equal(t, 200, d.Priority())
	assert.True(t, d.Available())

	dark, ok := d.Detect()
	assert.False(t, dark)
	assert.True(t, ok)

	assert.False(t, NewOverrideDetector(nil).Available())
}

func TestFileDetector_Detect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scheme")
	d := NewFileDetector(path)

	assert.True(t, d.Available())
	_, ok := d.Detect()
	assert.False(t, ok, "missing file is not a detection")

	require.NoError(t, os.WriteFile(path, []byte("prefer-dark\nignored\n"), 0o600))
	dark, ok := d.Detect()
	assert.True(t, dark)
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("light"), 0o600))
	dark, ok = d.Detect()
	assert.False(t, dark)
	assert.True(t, ok)

	assert.False(t, NewFileDetector("").Available())
	assert.False(t, NewFileDetector(filepath.Join(dir, "missing", "scheme")).Available())
}

func TestFileDetector_WatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scheme")
	d := NewFileDetector(path)

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- d.Watch(ctx, func() { changed <- struct{}{} })
	}()

	// Writes to other files in the directory are ignored; keep retrying
	// the watched file until the watcher is registered.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), []byte("dark"), 0o600))
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("dark"), 0o600)
		select {
		case <-changed:
			return true
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}

func TestSignal_FileDetectorEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheme")
	require.NoError(t, os.WriteFile(path, []byte("light"), 0o600))

	signal := NewSignal(nil)
	signal.RegisterDetector(NewFileDetector(path))
	assert.False(t, signal.PrefersDark())

	changes := make(chan bool, 4)
	unregister := signal.OnChange(func(dark bool) { changes <- dark })
	defer unregister()

	signal.Start(context.Background())
	t.Cleanup(func() { _ = signal.Close() })

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("dark"), 0o600)
		select {
		case dark := <-changes:
			return dark
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
	assert.True(t, signal.PrefersDark())
}

func TestPortal_IsColorSchemeChange(t *testing.T) {
	tests := []struct {
		name string
		sig  *dbus.Signal
		want bool
	}{
		{
			name: "appearance color-scheme",
			sig: &dbus.Signal{
				Name: portalInterface + ".SettingChanged",
				Body: []any{appearanceNamespace, colorSchemeKey, dbus.MakeVariant(uint32(1))},
			},
			want: true,
		},
		{
			name: "other key",
			sig: &dbus.Signal{
				Name: portalInterface + ".SettingChanged",
				Body: []any{appearanceNamespace, "accent-color", dbus.MakeVariant(uint32(1))},
			},
		},
		{
			name: "other signal",
			sig:  &dbus.Signal{Name: "org.freedesktop.portal.Request.Response", Body: []any{uint32(0)}},
		},
		{
			name: "short body",
			sig:  &dbus.Signal{Name: portalInterface + ".SettingChanged", Body: []any{appearanceNamespace}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isColorSchemeChange(tt.sig))
		})
	}
}

func TestPortal_ColorSchemeValue(t *testing.T) {
	scheme, ok := colorSchemeValue(dbus.MakeVariant(uint32(portalPreferDark)))
	assert.True(t, ok)
	assert.Equal(t, uint32(portalPreferDark), scheme)

	// Read wraps the value in a second variant.
	scheme, ok = colorSchemeValue(dbus.MakeVariant(dbus.MakeVariant(uint32(portalPreferLight))))
	assert.True(t, ok)
	assert.Equal(t, uint32(portalPreferLight), scheme)

	_, ok = colorSchemeValue(dbus.MakeVariant("dark"))
	assert.False(t, ok)
}

func TestPortal_SchemeToDark(t *testing.T) {
	dark, ok := schemeToDark(portalPreferDark)
	assert.True(t, dark)
	assert.True(t, ok)

	dark, ok = schemeToDark(portalPreferLight)
	assert.False(t, dark)
	assert.True(t, ok)

	_, ok = schemeToDark(portalNoPreference)
	assert.False(t, ok)

	_, ok = schemeToDark(7)
	assert.False(t, ok)
}

func TestPortalDetector_WithoutConnection(t *testing.T) {
	d := &PortalDetector{}

	assert.False(t, d.Available())
	_, ok := d.Detect()
	assert.False(t, ok)
	assert.Error(t, d.Watch(context.Background(), func() {}))
	assert.NoError(t, d.Close())
}
