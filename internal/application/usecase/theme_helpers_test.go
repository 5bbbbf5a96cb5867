package usecase_test

import (
	"context"
	"sync"

	"github.com/bnema/dimmer/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// fakeSignal is a controllable port.SystemSignal.
type fakeSignal struct {
	mu        sync.Mutex
	dark      bool
	callbacks []*func(bool)
	reads     int
}

func newFakeSignal(dark bool) *fakeSignal {
	return &fakeSignal{dark: dark}
}

func (s *fakeSignal) PrefersDark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.dark
}

func (s *fakeSignal) OnChange(callback func(bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cb := &callback
	s.callbacks = append(s.callbacks, cb)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, c := range s.callbacks {
			if c == cb {
				s.callbacks = append(s.callbacks[:i], s.callbacks[i+1:]...)
				return
			}
		}
	}
}

// Emit changes the signal and delivers the event to every subscriber.
func (s *fakeSignal) Emit(dark bool) {
	s.mu.Lock()
	s.dark = dark
	callbacks := make([]*func(bool), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, cb := range callbacks {
		(*cb)(dark)
	}
}

func (s *fakeSignal) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.callbacks)
}
