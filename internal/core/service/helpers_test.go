package service

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/torneoops/matchday/internal/core/ports"
)

// testEpoch is a fixed whole-second instant all timing tests are anchored
// to. JWT exp claims carry second precision, so sub-second offsets would
// make expectations lie.
var testEpoch = time.Unix(1_700_000_000, 0).UTC()

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// mintToken signs a token with the given claims. The signature is
// irrelevant to the inspector, which decodes without verification, but a
// properly signed token keeps the fixtures realistic.
func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// mintExpiringToken signs a token for sub "u1" expiring at exp.
func mintExpiringToken(t *testing.T, exp time.Time) string {
	t.Helper()
	return mintToken(t, jwt.MapClaims{
		"sub":         "u1",
		"email":       "keeper@club.example",
		"given_name":  "Sam",
		"family_name": "Vidal",
		"role":        "team",
		"exp":         exp.Unix(),
	})
}

// fakeTimer is one scheduled callback inside fakeClock.
type fakeTimer struct {
	at        time.Time
	fn        func()
	cancelled bool
	fired     bool
}

// fakeClock is a manual ports.Clock. Advance moves time forward and fires
// due timers in chronological order, outside the clock's own lock, so fired
// callbacks may schedule or cancel freely.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) ports.CancelFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return func() {
		c.mu.Lock()
		t.cancelled = true
		c.mu.Unlock()
	}
}

// Advance moves the clock by d, firing every due timer. Advance(0) fires
// timers scheduled for "now", which is how next-tick callbacks run.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		next := c.nextDueLocked(target)
		if next == nil {
			break
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		next.fired = true
		fn := next.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func (c *fakeClock) nextDueLocked(until time.Time) *fakeTimer {
	pending := make([]*fakeTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if !t.cancelled && !t.fired && !t.at.After(until) {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].at.Before(pending[j].at) })
	return pending[0]
}

// PendingTimers counts live, unfired timers.
func (c *fakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

// recordingNotifier captures notifications by severity.
type recordingNotifier struct {
	mu        sync.Mutex
	errors    []string
	warnings  []string
	infos     []string
	successes []string
}

func (n *recordingNotifier) ShowError(m string) {
	n.mu.Lock()
	n.errors = append(n.errors, m)
	n.mu.Unlock()
}

func (n *recordingNotifier) ShowWarning(m string) {
	n.mu.Lock()
	n.warnings = append(n.warnings, m)
	n.mu.Unlock()
}

func (n *recordingNotifier) ShowInfo(m string) {
	n.mu.Lock()
	n.infos = append(n.infos, m)
	n.mu.Unlock()
}

func (n *recordingNotifier) ShowSuccess(m string) {
	n.mu.Lock()
	n.successes = append(n.successes, m)
	n.mu.Unlock()
}

func (n *recordingNotifier) warningCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.warnings)
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

// recordingNavigator captures every navigation.
type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) NavigateTo(route string) {
	n.mu.Lock()
	n.routes = append(n.routes, route)
	n.mu.Unlock()
}

func (n *recordingNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}
