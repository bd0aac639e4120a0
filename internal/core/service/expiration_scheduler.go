package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/torneoops/matchday/internal/core/ports"
)

// ExpirationScheduler owns the warn and expire timers for the currently
// active token. For any token there is at most one pending warn callback and
// one pending expire callback; both die the instant the token they were
// scheduled for stops being current.
type ExpirationScheduler struct {
	mu        sync.Mutex
	clock     ports.Clock
	inspector *TokenInspector
	warnLead  time.Duration
	log       zerolog.Logger

	// gen invalidates callbacks from superseded schedules. A timer that
	// already fired but has not yet run observes a newer generation and
	// discards itself.
	gen          uint64
	cancelWarn   ports.CancelFunc
	cancelExpire ports.CancelFunc
}

func NewExpirationScheduler(clock ports.Clock, inspector *TokenInspector, warnLead time.Duration, log zerolog.Logger) *ExpirationScheduler {
	return &ExpirationScheduler{clock: clock, inspector: inspector, warnLead: warnLead, log: log}
}

// Schedule cancels any existing schedule, then programs onWarn and onExpire
// for token. An already-dead token (expired, malformed, or without an
// expiration claim) fires onExpire on the next tick and leaves no timers
// pending. onWarn is only scheduled when the token outlives the warn lead
// time.
func (s *ExpirationScheduler) Schedule(token string, onWarn, onExpire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.gen++
	gen := s.gen

	expireIn, ok := s.inspector.TimeToExpire(token, s.clock.Now())
	if !ok || expireIn <= 0 {
		s.cancelExpire = s.clock.AfterFunc(0, s.guarded(gen, onExpire))
		return
	}

	if s.warnLead > 0 && expireIn > s.warnLead {
		s.cancelWarn = s.clock.AfterFunc(expireIn-s.warnLead, s.guarded(gen, onWarn))
	}
	s.cancelExpire = s.clock.AfterFunc(expireIn, s.guarded(gen, onExpire))

	s.log.Debug().Dur("expire_in", expireIn).Msg("expiration schedule installed")
}

// Cancel drops both pending timers. Safe to call when nothing is scheduled.
func (s *ExpirationScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.gen++
}

func (s *ExpirationScheduler) cancelLocked() {
	if s.cancelWarn != nil {
		s.cancelWarn()
		s.cancelWarn = nil
	}
	if s.cancelExpire != nil {
		s.cancelExpire()
		s.cancelExpire = nil
	}
}

// guarded wraps fn so it only runs while its schedule is still current.
func (s *ExpirationScheduler) guarded(gen uint64, fn func()) func() {
	return func() {
		s.mu.Lock()
		live := s.gen == gen
		s.mu.Unlock()
		if live {
			fn()
		}
	}
}
