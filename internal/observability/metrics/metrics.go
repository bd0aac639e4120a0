// Package metrics defines the Prometheus metrics for the matchday client.
// It is the single source of truth for metric names, labels, and help
// strings. Collectors register themselves with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "matchday"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "rejected", "network_error", "decode_error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionsExpiredTotal counts sessions torn down because their token died.
// Label:
//   - trigger: "timer" (scheduler fired) or "cold_boot" (expired token found at startup)
var SessionsExpiredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of sessions ended by credential expiry.",
	},
	[]string{"trigger"},
)

// ExpiryWarningsTotal counts near-expiry warnings surfaced to the operator.
var ExpiryWarningsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_expiry_warnings_total",
		Help:      "Total number of near-expiry warnings fired.",
	},
)

// ProfileRefreshFailuresTotal counts post-login profile refreshes that
// failed. These never invalidate the session, so the counter is the only
// place the failure is visible outside the log.
var ProfileRefreshFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_refresh_failures_total",
		Help:      "Total number of failed post-login profile refreshes.",
	},
)

// StorageCorruptionsTotal counts persisted entries that failed shape
// validation and were discarded.
// Label:
//   - key: the storage key of the discarded entry
var StorageCorruptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_corruptions_total",
		Help:      "Total number of corrupt persisted entries discarded.",
	},
	[]string{"key"},
)
