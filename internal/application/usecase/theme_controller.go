package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bnema/dimmer/internal/application/port"
	"github.com/bnema/dimmer/internal/domain/entity"
	"github.com/bnema/dimmer/internal/logging"
)

var (
	// ErrInvalidPreference is returned when a preference outside dark/light/system is set.
	ErrInvalidPreference = errors.New("invalid theme preference")
	// ErrControllerClosed is returned by mutating calls after Close.
	ErrControllerClosed = errors.New("theme controller closed")
)

type controllerState int

const (
	stateUninitialized controllerState = iota
	stateActive
	stateClosed
)

// observerEntry wraps an observer to enable pointer comparison for removal.
type observerEntry struct {
	fn      func(entity.ThemeState)
	removed atomic.Bool
}

// ThemeController is the stateful theme façade consumed by UI code.
// One controller is owned by one UI scope; Close ends that scope.
//
// Operations are serialized and run to completion, so the most recent
// SetPreference or signal update always wins. Observers are notified
// synchronously while the operation is still in progress: they may read
// State, unsubscribe, release a signal handle or Close the controller, but
// must not call SetPreference, Toggle, Sync or Reconcile.
type ThemeController struct {
	resolver *ThemeResolver
	store    *PreferenceStore
	signal   port.SystemSignal

	// opMu serializes every state transition.
	opMu sync.Mutex

	// mu guards the fields below for readers that do not hold opMu.
	mu        sync.RWMutex
	lifecycle controllerState
	current   entity.ThemeState
	observers []*observerEntry

	// sigMu guards the signal registration. It is never held while
	// observers run, so teardown works from inside a notification.
	sigMu        sync.Mutex
	signalRefs   int
	signalCancel func()
	signalGen    atomic.Uint64
}

// NewThemeController creates a controller in the uninitialized state.
func NewThemeController(store *PreferenceStore, signal port.SystemSignal, flag port.RootVisualFlag) *ThemeController {
	return &ThemeController{
		resolver: NewThemeResolver(store, signal, flag),
		store:    store,
		signal:   signal,
	}
}

// Resolver exposes the controller's resolver.
func (c *ThemeController) Resolver() *ThemeResolver {
	return c.resolver
}

// CurrentMode returns the cached resolved mode. The first call computes
// the initial state and applies the root flag.
func (c *ThemeController) CurrentMode(ctx context.Context) entity.ColorMode {
	return c.State(ctx).Mode
}

// State returns the cached theme state, initializing it on first use.
func (c *ThemeController) State(ctx context.Context) entity.ThemeState {
	if state, ok := c.cached(); ok {
		return state
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.ensureInitializedLocked(ctx)
}

// SetPreference persists p, recomputes the mode, applies the root flag and
// notifies observers.
func (c *ThemeController) SetPreference(ctx context.Context, p entity.ThemePreference) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPreference, string(p))
	}

	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isClosed() {
		return ErrControllerClosed
	}

	c.setPreferenceLocked(ctx, p)
	return nil
}

// Toggle switches to the explicit opposite of the current mode.
func (c *ThemeController) Toggle(ctx context.Context) (entity.ColorMode, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isClosed() {
		return "", ErrControllerClosed
	}

	current := c.ensureInitializedLocked(ctx)
	next := current.Mode.Opposite()
	c.setPreferenceLocked(ctx, next.Preference())
	return next, nil
}

// Reconcile re-applies the root flag for the cached mode, initializing the
// controller if needed. Meant for mount time; applying is idempotent.
// A closed controller returns its cached mode without applying.
func (c *ThemeController) Reconcile(ctx context.Context) entity.ColorMode {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	state, ok := c.cached()
	if c.isClosed() {
		if ok {
			return state.Mode
		}
		return c.resolver.Resolve(ctx).Mode
	}
	if ok {
		c.resolver.ApplyRootVisualFlag(ctx, state.Mode)
		return state.Mode
	}
	return c.ensureInitializedLocked(ctx).Mode
}

// Sync re-reads the store and the signal, for changes made outside this
// controller (another process writing the same store). Observers are only
// notified if the state differs from the cached one.
func (c *ThemeController) Sync(ctx context.Context) entity.ThemeState {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isClosed() {
		state, _ := c.cached()
		return state
	}

	prev, initialized := c.cached()
	next := c.resolver.Resolve(ctx)
	if initialized && next == prev {
		return prev
	}

	if !initialized || next.Mode != prev.Mode {
		c.resolver.ApplyRootVisualFlag(ctx, next.Mode)
	}
	c.update(next)
	c.notify(ctx, next)

	logging.FromContext(ctx).Debug().
		Str("preference", string(next.Preference)).
		Str("mode", string(next.Mode)).
		Msg("theme synced from store")

	return next
}

// Subscribe registers an observer for theme state changes.
// Observers run synchronously in registration order; a panicking observer
// is logged and does not block the others. Returns an idempotent unsubscribe.
func (c *ThemeController) Subscribe(observer func(entity.ThemeState)) func() {
	entry := &observerEntry{fn: observer}

	c.mu.Lock()
	if c.lifecycle == stateClosed {
		c.mu.Unlock()
		return func() {}
	}
	c.observers = append(c.observers, entry)
	c.mu.Unlock()

	return func() {
		entry.removed.Store(true)

		c.mu.Lock()
		defer c.mu.Unlock()

		for i, o := range c.observers {
			if o == entry {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// SubscribeToSystemSignal starts following system signal changes while no
// explicit preference is stored. Repeated calls share one registration on
// the signal; it is released when every returned handle has been called.
func (c *ThemeController) SubscribeToSystemSignal(ctx context.Context) func() {
	c.sigMu.Lock()
	defer c.sigMu.Unlock()

	if c.isClosed() || c.signal == nil {
		return func() {}
	}

	c.signalRefs++
	if c.signalRefs == 1 {
		gen := c.signalGen.Add(1)
		cbCtx := context.WithoutCancel(ctx)
		c.signalCancel = c.signal.OnChange(func(prefersDark bool) {
			c.handleSignalChange(cbCtx, gen, prefersDark)
		})
		logging.FromContext(ctx).Debug().Msg("subscribed to system color scheme signal")
	}

	var once sync.Once
	return func() {
		once.Do(c.releaseSignal)
	}
}

// Close tears down the controller scope: the signal registration and every
// observer are dropped and no notification fires afterwards.
// Close does not wait for an in-flight operation and may be called by an
// observer.
func (c *ThemeController) Close() {
	c.mu.Lock()
	c.lifecycle = stateClosed
	for _, o := range c.observers {
		o.removed.Store(true)
	}
	c.observers = nil
	c.mu.Unlock()

	c.sigMu.Lock()
	cancel := c.dropSignalLocked()
	c.sigMu.Unlock()
	cancel()
}

func (c *ThemeController) releaseSignal() {
	c.sigMu.Lock()
	if c.signalRefs == 0 {
		c.sigMu.Unlock()
		return
	}
	c.signalRefs--
	cancel := func() {}
	if c.signalRefs == 0 {
		cancel = c.dropSignalLocked()
	}
	c.sigMu.Unlock()
	cancel()
}

// dropSignalLocked must be called with sigMu held. The returned cancel
// unregisters from the signal and is called after sigMu is released.
func (c *ThemeController) dropSignalLocked() func() {
	c.signalRefs = 0
	c.signalGen.Add(1)
	cancel := c.signalCancel
	c.signalCancel = nil
	if cancel == nil {
		return func() {}
	}
	return cancel
}

func (c *ThemeController) handleSignalChange(ctx context.Context, gen uint64, prefersDark bool) {
	log := logging.FromContext(ctx)

	c.opMu.Lock()
	defer c.opMu.Unlock()

	// Delivered after unsubscribe or teardown.
	if gen != c.signalGen.Load() || c.isClosed() {
		return
	}

	pref, ok := c.store.ReadEffective(ctx)
	if ok && pref.IsExplicit() {
		log.Debug().
			Str("preference", string(pref)).
			Bool("prefers_dark", prefersDark).
			Msg("explicit theme preference, ignoring system change")
		return
	}

	prev, initialized := c.cached()
	next := entity.ThemeState{
		Preference: pref,
		Stored:     ok,
		Mode:       entity.ModeFromDark(prefersDark),
	}
	if initialized && prev.Mode == next.Mode {
		c.update(next)
		return
	}

	c.resolver.ApplyRootVisualFlag(ctx, next.Mode)
	c.update(next)
	c.notify(ctx, next)

	log.Info().
		Bool("prefers_dark", prefersDark).
		Str("mode", string(next.Mode)).
		Msg("system color scheme changed")
}

func (c *ThemeController) setPreferenceLocked(ctx context.Context, p entity.ThemePreference) {
	c.store.WritePreference(ctx, p)

	state := entity.ThemeState{
		Preference: p,
		Stored:     true,
		Mode:       c.resolver.ResolveActiveMode(p, true),
	}
	c.resolver.ApplyRootVisualFlag(ctx, state.Mode)
	c.update(state)
	c.notify(ctx, state)

	logging.FromContext(ctx).Info().
		Str("preference", string(p)).
		Str("mode", string(state.Mode)).
		Msg("theme preference changed")
}

// ensureInitializedLocked must be called with opMu held.
func (c *ThemeController) ensureInitializedLocked(ctx context.Context) entity.ThemeState {
	if state, ok := c.cached(); ok {
		return state
	}

	state := c.resolver.InitialState(ctx)
	c.update(state)
	return state
}

func (c *ThemeController) cached() (entity.ThemeState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current, c.current.Mode != ""
}

func (c *ThemeController) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lifecycle == stateClosed
}

func (c *ThemeController) update(state entity.ThemeState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = state
	if c.lifecycle == stateUninitialized {
		c.lifecycle = stateActive
	}
}

func (c *ThemeController) notify(ctx context.Context, state entity.ThemeState) {
	c.mu.RLock()
	observers := make([]*observerEntry, len(c.observers))
	copy(observers, c.observers)
	c.mu.RUnlock()

	for _, o := range observers {
		if o.removed.Load() {
			continue
		}
		c.deliver(ctx, o, state)
	}
}

func (c *ThemeController) deliver(ctx context.Context, o *observerEntry, state entity.ThemeState) {
	defer logging.RecoverPanic(ctx, "theme observer")
	o.fn(state)
}
