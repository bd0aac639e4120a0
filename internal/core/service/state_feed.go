package service

import (
	"sync"

	"github.com/torneoops/matchday/internal/core/domain"
	"github.com/torneoops/matchday/internal/core/ports"
)

// StateFeed is a last-value broadcast of AuthState: new subscribers
// immediately receive the current state, then every subsequent transition.
// Publish invokes subscribers synchronously; callbacks must be fast and must
// not call back into the session controller.
type StateFeed struct {
	mu      sync.RWMutex
	current domain.AuthState
	subs    map[uint64]func(domain.AuthState)
	nextID  uint64
}

func NewStateFeed(initial domain.AuthState) *StateFeed {
	return &StateFeed{current: initial, subs: make(map[uint64]func(domain.AuthState))}
}

// Current returns a snapshot of the latest published state.
func (f *StateFeed) Current() domain.AuthState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Subscribe registers fn, replays the current state to it, and returns an
// unsubscribe handle. Unsubscribing twice is safe.
func (f *StateFeed) Subscribe(fn func(domain.AuthState)) ports.Unsubscribe {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.subs[id] = fn
	replay := f.current
	f.mu.Unlock()

	fn(replay)

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// Publish records state as current and forwards it to every subscriber.
func (f *StateFeed) Publish(state domain.AuthState) {
	f.mu.Lock()
	f.current = state
	handlers := make([]func(domain.AuthState), 0, len(f.subs))
	for _, fn := range f.subs {
		handlers = append(handlers, fn)
	}
	f.mu.Unlock()

	for _, fn := range handlers {
		fn(state)
	}
}
