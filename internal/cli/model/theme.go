// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dimmer/internal/cli/styles"
	"github.com/bnema/dimmer/internal/domain/entity"
	"github.com/bnema/dimmer/internal/logging"
)

// ThemeController is the part of the theme controller the TUI drives.
type ThemeController interface {
	State(ctx context.Context) entity.ThemeState
	SetPreference(ctx context.Context, p entity.ThemePreference) error
	Toggle(ctx context.Context) (entity.ColorMode, error)
	Subscribe(observer func(entity.ThemeState)) func()
}

// ThemeModelConfig holds configuration for the theme model.
type ThemeModelConfig struct {
	Controller ThemeController
	// Signal reports the current system reading. Optional.
	Signal func() styles.SignalInfo
	// RootClass reports the published root class. Optional.
	RootClass func() string
	// RootClassFile is shown next to the root class when set.
	RootClassFile string
}

// stateChangedMsg carries a state delivered by the controller.
type stateChangedMsg struct {
	state entity.ThemeState
}

// themeErrMsg reports a failed preference change.
type themeErrMsg struct {
	err error
}

// subscription bridges controller notifications into the Bubble Tea loop.
// Observers run synchronously inside controller operations, so delivery
// never blocks: when the buffer is full the oldest pending state is dropped.
type subscription struct {
	once        sync.Once
	states      chan entity.ThemeState
	done        chan struct{}
	unsubscribe func()
}

func newSubscription(controller ThemeController) *subscription {
	s := &subscription{
		states: make(chan entity.ThemeState, 1),
		done:   make(chan struct{}),
	}
	s.unsubscribe = controller.Subscribe(s.push)
	return s
}

func (s *subscription) push(state entity.ThemeState) {
	for {
		select {
		case s.states <- state:
			return
		default:
		}
		select {
		case <-s.states:
		default:
		}
	}
}

func (s *subscription) close() {
	s.once.Do(func() {
		s.unsubscribe()
		close(s.done)
	})
}

// wait returns a Cmd that yields the next state, or nil once closed.
func (s *subscription) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case state := <-s.states:
			return stateChangedMsg{state: state}
		case <-s.done:
			return nil
		}
	}
}

// ThemeModel is the Bubble Tea model for the interactive theme switcher.
type ThemeModel struct {
	// UI components
	help help.Model
	keys styles.ThemeKeyMap

	// State
	state  entity.ThemeState
	err    error
	status string

	// Dependencies
	ctx        context.Context
	controller ThemeController
	signal     func() styles.SignalInfo
	rootClass  func() string
	rootFile   string
	sub        *subscription
	theme      *styles.Theme
}

// NewThemeModel creates the theme switcher. The model subscribes to the
// controller immediately and unsubscribes when the user quits.
func NewThemeModel(ctx context.Context, cfg ThemeModelConfig) ThemeModel {
	state := cfg.Controller.State(ctx)
	theme := styles.NewTheme(state.Mode)

	return ThemeModel{
		help:       styles.NewStyledHelp(theme),
		keys:       styles.DefaultThemeKeyMap(),
		state:      state,
		ctx:        ctx,
		controller: cfg.Controller,
		signal:     cfg.Signal,
		rootClass:  cfg.RootClass,
		rootFile:   cfg.RootClassFile,
		sub:        newSubscription(cfg.Controller),
		theme:      theme,
	}
}

// Init implements tea.Model.
func (m ThemeModel) Init() tea.Cmd {
	return m.sub.wait()
}

// Update implements tea.Model.
func (m ThemeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case stateChangedMsg:
		m.applyState(msg.state)
		return m, m.sub.wait()

	case themeErrMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m ThemeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		mode, err := m.controller.Toggle(m.ctx)
		if err != nil {
			return m, errCmd(err)
		}
		m.status = "toggled to " + string(mode)

	case key.Matches(msg, m.keys.Dark):
		return m.setPreference(entity.ThemeDark)

	case key.Matches(msg, m.keys.Light):
		return m.setPreference(entity.ThemeLight)

	case key.Matches(msg, m.keys.System):
		return m.setPreference(entity.ThemeSystem)
	}

	return m, nil
}

func (m ThemeModel) setPreference(p entity.ThemePreference) (tea.Model, tea.Cmd) {
	if err := m.controller.SetPreference(m.ctx, p); err != nil {
		logging.FromContext(m.ctx).Warn().Err(err).Str("preference", string(p)).Msg("failed to set theme preference")
		return m, errCmd(err)
	}
	m.status = "preference set to " + string(p)
	return m, nil
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return themeErrMsg{err: err}
	}
}

func (m *ThemeModel) applyState(state entity.ThemeState) {
	m.err = nil
	if state.Mode != m.state.Mode {
		m.theme = styles.NewTheme(state.Mode)
		width, showAll := m.help.Width, m.help.ShowAll
		m.help = styles.NewStyledHelp(m.theme)
		m.help.Width, m.help.ShowAll = width, showAll
	}
	m.state = state
}

// Close unsubscribes from the controller and releases a pending wait.
// It is safe to call more than once.
func (m ThemeModel) Close() {
	m.sub.close()
}

// State returns the state the model currently renders.
func (m ThemeModel) State() entity.ThemeState {
	return m.state
}

// View implements tea.Model.
func (m ThemeModel) View() string {
	renderer := styles.NewStateRenderer(m.theme)

	var sb strings.Builder
	sb.WriteString(m.theme.BoxHeader.Render("dimmer"))
	sb.WriteString("\n")

	signal := styles.SignalInfo{Source: "unknown"}
	if m.signal != nil {
		signal = m.signal()
	}
	sb.WriteString(renderer.Render(m.state, signal))
	sb.WriteString("\n")

	if m.rootClass != nil {
		line := "root class " + m.rootClass()
		if m.rootFile != "" {
			line += " → " + m.rootFile
		}
		sb.WriteString("\n")
		sb.WriteString(m.theme.Subtle.Render(line))
	}

	box := m.theme.Box.Render(sb.String())

	var footer string
	switch {
	case m.err != nil:
		footer = m.theme.ErrorStyle.Render("error: " + m.err.Error())
	case m.status != "":
		footer = m.theme.SuccessStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, box, footer, m.help.View(m.keys))
}
