package model

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dimmer/internal/cli/styles"
	"github.com/bnema/dimmer/internal/domain/entity"
)

type fakeController struct {
	mu           sync.Mutex
	state        entity.ThemeState
	observers    []func(entity.ThemeState)
	unsubscribed int
	setErr       error
	set          []entity.ThemePreference
}

func (f *fakeController) State(context.Context) entity.ThemeState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeController) SetPreference(_ context.Context, p entity.ThemePreference) error {
	if f.setErr != nil {
		return f.setErr
	}
	mode := entity.ModeLight
	if p == entity.ThemeDark {
		mode = entity.ModeDark
	}
	f.apply(entity.ThemeState{Preference: p, Stored: true, Mode: mode})
	f.mu.Lock()
	f.set = append(f.set, p)
	f.mu.Unlock()
	return nil
}

func (f *fakeController) Toggle(ctx context.Context) (entity.ColorMode, error) {
	next := f.State(ctx).Mode.Opposite()
	return next, f.SetPreference(ctx, next.Preference())
}

func (f *fakeController) Subscribe(observer func(entity.ThemeState)) func() {
	f.mu.Lock()
	f.observers = append(f.observers, observer)
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.unsubscribed++
		f.observers = nil
		f.mu.Unlock()
	}
}

func (f *fakeController) apply(state entity.ThemeState) {
	f.mu.Lock()
	f.state = state
	observers := append(([]func(entity.ThemeState))(nil), f.observers...)
	f.mu.Unlock()
	for _, o := range observers {
		o(state)
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, fc *fakeController) ThemeModel {
	t.Helper()
	return NewThemeModel(context.Background(), ThemeModelConfig{
		Controller: fc,
		Signal: func() styles.SignalInfo {
			return styles.SignalInfo{PrefersDark: false, Source: "fallback"}
		},
		RootClass: func() string {
			return string(fc.State(context.Background()).Mode)
		},
		RootClassFile: "/tmp/dimmer/root-class",
	})
}

// drain delivers the next pending controller notification to the model.
func drain(t *testing.T, m ThemeModel) ThemeModel {
	t.Helper()
	msg := m.Init()()
	updated, _ := m.Update(msg)
	return updated.(ThemeModel)
}

func TestThemeModel_SetDarkUpdatesView(t *testing.T) {
	fc := &fakeController{state: entity.ThemeState{Mode: entity.ModeLight}}
	m := newTestModel(t, fc)

	require.Contains(t, m.View(), "follows system")
	require.Contains(t, m.View(), "root class light → /tmp/dimmer/root-class")

	updated, cmd := m.Update(keyMsg("d"))
	require.Nil(t, cmd)
	m = drain(t, updated.(ThemeModel))

	assert.Equal(t, []entity.ThemePreference{entity.ThemeDark}, fc.set)
	assert.Equal(t, entity.ModeDark, m.State().Mode)
	assert.Equal(t, entity.ModeDark, m.theme.Mode)
	require.Contains(t, m.View(), "preference set to dark")
}

func TestThemeModel_ToggleFlipsMode(t *testing.T) {
	fc := &fakeController{state: entity.ThemeState{Preference: entity.ThemeDark, Stored: true, Mode: entity.ModeDark}}
	m := newTestModel(t, fc)

	updated, _ := m.Update(keyMsg("t"))
	m = drain(t, updated.(ThemeModel))

	assert.Equal(t, entity.ModeLight, m.State().Mode)
	assert.Equal(t, entity.ThemeLight, m.State().Preference)
	require.Contains(t, m.View(), "toggled to light")
}

func TestThemeModel_ExternalChangeIsRendered(t *testing.T) {
	fc := &fakeController{state: entity.ThemeState{Mode: entity.ModeLight}}
	m := newTestModel(t, fc)

	// A system signal change delivered by the controller.
	fc.apply(entity.ThemeState{Mode: entity.ModeDark})
	m = drain(t, m)

	assert.Equal(t, entity.ModeDark, m.State().Mode)
	assert.False(t, m.State().Stored)
}

func TestThemeModel_SetPreferenceError(t *testing.T) {
	fc := &fakeController{state: entity.ThemeState{Mode: entity.ModeLight}, setErr: errors.New("boom")}
	m := newTestModel(t, fc)

	updated, cmd := m.Update(keyMsg("l"))
	require.NotNil(t, cmd)
	updated, _ = updated.(ThemeModel).Update(cmd())

	require.Contains(t, updated.View(), "error: boom")
}

func TestThemeModel_QuitUnsubscribes(t *testing.T) {
	fc := &fakeController{state: entity.ThemeState{Mode: entity.ModeLight}}
	m := newTestModel(t, fc)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, fc.unsubscribed)

	// Quitting twice must not unsubscribe twice.
	m.Update(keyMsg("q"))
	assert.Equal(t, 1, fc.unsubscribed)
}

func TestSubscription_KeepsLatestPendingState(t *testing.T) {
	fc := &fakeController{}
	sub := newSubscription(fc)

	fc.apply(entity.ThemeState{Mode: entity.ModeDark})
	fc.apply(entity.ThemeState{Mode: entity.ModeLight})

	msg := sub.wait()()
	assert.Equal(t, stateChangedMsg{state: entity.ThemeState{Mode: entity.ModeLight}}, msg)
}

func TestThemeModel_CloseReleasesPendingWait(t *testing.T) {
	fc := &fakeController{state: entity.ThemeState{Mode: entity.ModeLight}}
	m := newTestModel(t, fc)

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- m.Init()() }()

	m.Close()
	m.Close()

	select {
	case msg := <-msgs:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("pending wait not released by Close")
	}
	assert.Equal(t, 1, fc.unsubscribed)

	updated, cmd := m.Update(nil)
	assert.Nil(t, cmd)
	assert.Equal(t, entity.ModeLight, updated.(ThemeModel).State().Mode)
}
