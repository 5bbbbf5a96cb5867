// Package rootflag provides sinks for the root visual flag.
package rootflag

import (
	"context"
	"sync"

	"github.com/bnema/dimmer/internal/application/port"
)

var _ port.RootVisualFlag = (*Memory)(nil)

// Memory keeps the root flag in process and tells listeners about
// every application.
type Memory struct {
	mu        sync.RWMutex
	dark      bool
	set       bool
	applied   int
	listeners []*listenerWrapper
}

type listenerWrapper struct {
	fn func(dark bool)
}

// NewMemory creates an unset in-memory flag.
func NewMemory() *Memory {
	return &Memory{}
}

// SetDark implements port.RootVisualFlag.
func (m *Memory) SetDark(_ context.Context, dark bool) error {
	m.mu.Lock()
	m.dark = dark
	m.set = true
	m.applied++
	listeners := make([]*listenerWrapper, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l.fn(dark)
	}
	return nil
}

// Dark returns the flag value and whether it was ever applied.
func (m *Memory) Dark() (dark, set bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dark, m.set
}

// Applied returns how many times the flag was applied.
func (m *Memory) Applied() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.applied
}

// OnApply registers a listener called after every SetDark.
// Returns a function to unregister it.
func (m *Memory) OnApply(fn func(dark bool)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := &listenerWrapper{fn: fn}
	m.listeners = append(m.listeners, w)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.listeners {
			if l == w {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}
