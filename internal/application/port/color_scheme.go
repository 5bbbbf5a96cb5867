package port

import "context"

// ColorSchemeDetector detects the system's color scheme preference.
// Multiple detectors can be registered with different priorities.
type ColorSchemeDetector interface {
	// Name returns a human-readable name for this detector.
	Name() string

	// Priority returns the detector's priority.
	// Higher values = higher priority (checked first).
	// Recommended ranges:
	//   - 200+: Explicit overrides (config)
	//   - 100+: Desktop portal
	//   -  50+: Watched files
	//   -  10+: Fallback detectors (gsettings, env vars, terminal)
	Priority() int

	// Available returns true if this detector can be used.
	Available() bool

	// Detect returns the detected preference and whether detection succeeded.
	// Returns (preference, true) on success, (_, false) if unavailable or detection failed.
	Detect() (prefersDark bool, ok bool)
}

// ColorSchemeWatcher is implemented by detectors that can push change
// notifications instead of being polled.
type ColorSchemeWatcher interface {
	// Watch blocks until ctx is done, calling changed whenever the
	// underlying source may have a new value.
	Watch(ctx context.Context, changed func()) error
}

// SystemSignal is the live "environment prefers dark" boolean.
// It is not owned or persisted by the preference engine.
type SystemSignal interface {
	// PrefersDark reads the current signal synchronously.
	// Returns false when no source is available.
	PrefersDark() bool

	// OnChange registers a callback invoked with the new value whenever
	// the signal changes. Returns a function to unregister the callback;
	// no invocation starts after it returns.
	OnChange(callback func(prefersDark bool)) func()
}
