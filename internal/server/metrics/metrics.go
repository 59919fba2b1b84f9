// Package metrics registers the prometheus collectors for the auth flow.
// The rejection reason label exists for operators only; clients always see
// the same generic unauthorized response regardless of reason.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionWriteFailures counts session registry writes that failed at
	// login. Logins still succeed; only server-side revocation degrades.
	SessionWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "profilekeeper",
		Subsystem: "sessions",
		Name:      "registry_write_failures_total",
		Help:      "Session registry writes that failed during login.",
	})

	// SessionReadFailures counts registry reads that failed while the auth
	// guard was running in strict-revocation mode (the guard falls open).
	SessionReadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "profilekeeper",
		Subsystem: "sessions",
		Name:      "registry_read_failures_total",
		Help:      "Session registry reads that failed during token validation.",
	})

	// AuthRejections counts requests rejected by the auth guard, labeled by
	// internal reason: missing, invalid, expired, revoked.
	AuthRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "profilekeeper",
		Subsystem: "auth",
		Name:      "rejections_total",
		Help:      "Requests rejected by the auth guard.",
	}, []string{"reason"})
)
