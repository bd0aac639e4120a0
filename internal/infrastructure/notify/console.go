// Package notify implements the user-facing notification sink and the
// navigator for a terminal client: toasts become log lines, navigation
// becomes a recorded current route.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// ConsoleNotifier renders notifications through the structured logger.
type ConsoleNotifier struct {
	log zerolog.Logger
}

func NewConsoleNotifier(log zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

func (n *ConsoleNotifier) ShowError(message string)   { n.log.Error().Msg(message) }
func (n *ConsoleNotifier) ShowSuccess(message string) { n.log.Info().Msg(message) }
func (n *ConsoleNotifier) ShowInfo(message string)    { n.log.Info().Msg(message) }
func (n *ConsoleNotifier) ShowWarning(message string) { n.log.Warn().Msg(message) }

// RouteTracker is a Navigator that records the current route. The CLI reads
// it back to tell the operator where the session landed.
type RouteTracker struct {
	mu    sync.RWMutex
	route string
	log   zerolog.Logger
}

func NewRouteTracker(log zerolog.Logger) *RouteTracker {
	return &RouteTracker{route: "/", log: log}
}

func (t *RouteTracker) NavigateTo(route string) {
	t.mu.Lock()
	t.route = route
	t.mu.Unlock()
	t.log.Debug().Str("route", route).Msg("navigated")
}

// Current returns the route last navigated to.
func (t *RouteTracker) Current() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.route
}
