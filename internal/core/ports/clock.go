package ports

import "time"

// CancelFunc cancels a scheduled callback. Idempotent.
type CancelFunc func()

// Clock supplies current time and one-shot scheduling. Injected so
// expiration timing is testable without real timers.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules fn to run once after d and returns a cancel
	// handle. A non-positive d fires on the next tick, not synchronously.
	AfterFunc(d time.Duration, fn func()) CancelFunc
}
