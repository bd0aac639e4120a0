package service

import (
	"time"

	"github.com/torneoops/matchday/internal/core/ports"
)

// SystemClock implements ports.Clock on the real wall clock.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc schedules fn through time.AfterFunc. Cancelling after the timer
// has fired is a no-op, matching the idempotence contract of CancelFunc.
func (SystemClock) AfterFunc(d time.Duration, fn func()) ports.CancelFunc {
	if d < 0 {
		d = 0
	}
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
