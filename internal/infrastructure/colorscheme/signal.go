// Package colorscheme turns operating system dark-mode sources into a
// single live signal.
package colorscheme

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/dimmer/internal/application/port"
	"github.com/bnema/dimmer/internal/logging"
)

// sourceFallback indicates no detector provided the preference.
const sourceFallback = "fallback"

// Reading is one resolution of the detector chain.
type Reading struct {
	PrefersDark bool
	Source      string
}

// callbackWrapper wraps a callback function to enable pointer comparison for removal.
type callbackWrapper struct {
	fn      func(bool)
	removed atomic.Bool
}

// Compile-time interface check.
var _ port.SystemSignal = (*Signal)(nil)

// Signal implements port.SystemSignal on top of prioritized detectors.
// When no detector answers, the signal reads false.
type Signal struct {
	mu        sync.RWMutex
	detectors []port.ColorSchemeDetector
	current   Reading
	resolved  bool
	callbacks []*callbackWrapper

	// refreshMu keeps change notifications in resolution order.
	refreshMu sync.Mutex

	pollInterval time.Duration

	runMu  sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Option configures a Signal.
type Option func(*Signal)

// WithPollInterval makes Start re-resolve the detector chain periodically.
// Zero disables polling.
func WithPollInterval(d time.Duration) Option {
	return func(s *Signal) {
		s.pollInterval = d
	}
}

// NewSignal creates a signal over the given detectors.
func NewSignal(detectors []port.ColorSchemeDetector, opts ...Option) *Signal {
	s := &Signal{
		detectors: append([]port.ColorSchemeDetector(nil), detectors...),
		current:   Reading{Source: sourceFallback},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterDetector adds a detector to the chain.
func (s *Signal) RegisterDetector(detector port.ColorSchemeDetector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detectors = append(s.detectors, detector)
}

// Resolve runs the detector chain without touching the cached value.
func (s *Signal) Resolve() Reading {
	s.mu.RLock()
	sorted := make([]port.ColorSchemeDetector, len(s.detectors))
	copy(sorted, s.detectors)
	s.mu.RUnlock()

	// Sort detectors by priority (highest first)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})

	for _, detector := range sorted {
		if !detector.Available() {
			continue
		}
		if prefersDark, ok := detector.Detect(); ok {
			return Reading{PrefersDark: prefersDark, Source: detector.Name()}
		}
	}

	return Reading{PrefersDark: false, Source: sourceFallback}
}

// Current returns the cached reading, resolving it on first use.
func (s *Signal) Current() Reading {
	if current, ok := s.cached(); ok {
		return current
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if current, ok := s.cached(); ok {
		return current
	}

	reading := s.Resolve()
	s.mu.Lock()
	s.current, s.resolved = reading, true
	s.mu.Unlock()
	return reading
}

func (s *Signal) cached() (Reading, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.resolved
}

// PrefersDark implements port.SystemSignal.
func (s *Signal) PrefersDark() bool {
	return s.Current().PrefersDark
}

// Refresh re-resolves the chain and notifies callbacks if the value changed.
// The first resolution only primes the cache.
func (s *Signal) Refresh(ctx context.Context) Reading {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	next := s.Resolve()

	s.mu.Lock()
	prev, primed := s.current, s.resolved
	s.current = next
	s.resolved = true
	if primed && prev.PrefersDark == next.PrefersDark {
		s.mu.Unlock()
		return next
	}
	callbacks := make([]*callbackWrapper, len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	if !primed {
		return next
	}

	logging.FromContext(ctx).Debug().
		Bool("prefers_dark", next.PrefersDark).
		Str("source", next.Source).
		Msg("color scheme signal changed")

	// Invoke callbacks outside of lock
	for _, cb := range callbacks {
		if cb.removed.Load() {
			continue
		}
		s.deliver(ctx, cb, next.PrefersDark)
	}
	return next
}

func (*Signal) deliver(ctx context.Context, cb *callbackWrapper, prefersDark bool) {
	defer logging.RecoverPanic(ctx, "color scheme callback")
	cb.fn(prefersDark)
}

// OnChange implements port.SystemSignal.
func (s *Signal) OnChange(callback func(bool)) func() {
	// Wrap callback to enable pointer comparison for removal
	wrapper := &callbackWrapper{fn: callback}

	s.mu.Lock()
	s.callbacks = append(s.callbacks, wrapper)
	s.mu.Unlock()

	// Prime the cache so the first change is measured against the value
	// the subscriber could have read.
	s.Current()

	return func() {
		wrapper.removed.Store(true)

		s.mu.Lock()
		defer s.mu.Unlock()

		// Find and remove callback by pointer equality
		for i, cb := range s.callbacks {
			if cb == wrapper {
				s.callbacks = append(s.callbacks[:i], s.callbacks[i+1:]...)
				return
			}
		}
	}
}

// Start begins change detection: every available detector that can push
// changes is watched and, if configured, the chain is polled. Start is a
// no-op when already running.
func (s *Signal) Start(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	s.cancel = cancel
	s.group = g

	s.Current()
	log := logging.FromContext(ctx)

	s.mu.RLock()
	detectors := make([]port.ColorSchemeDetector, len(s.detectors))
	copy(detectors, s.detectors)
	s.mu.RUnlock()

	changed := func() { s.Refresh(gctx) }

	for _, detector := range detectors {
		watcher, ok := detector.(port.ColorSchemeWatcher)
		if !ok || !detector.Available() {
			continue
		}
		name := detector.Name()
		g.Go(func() error {
			wctx := logging.WithDetector(gctx, name)
			if err := watcher.Watch(wctx, changed); err != nil && gctx.Err() == nil {
				// One broken watcher must not stop the others.
				logging.FromContext(wctx).Warn().Err(err).Msg("color scheme watcher stopped")
			}
			return nil
		})
		log.Debug().Str("detector", name).Msg("watching color scheme source")
	}

	if s.pollInterval > 0 {
		interval := s.pollInterval
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					s.Refresh(gctx)
				}
			}
		})
	}
}

// Close stops change detection and waits for the watchers to exit.
func (s *Signal) Close() error {
	s.runMu.Lock()
	cancel, g := s.cancel, s.group
	s.cancel, s.group = nil, nil
	s.runMu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	return g.Wait()
}
