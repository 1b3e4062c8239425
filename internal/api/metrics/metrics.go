// Package metrics defines and registers the custom Prometheus metrics for
// the AbejaNet auth API. It is the single source of truth for metric names,
// labels, and help strings; promauto registers everything with the default
// registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "abejanet"

// LoginsTotal counts login attempts by outcome.
// Labels:
//   - result: "success", "invalid", "inactive", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// TokenChecksTotal counts bearer-token verifications performed by the
// access guard.
// Labels:
//   - result: "ok", "missing", "expired", or "invalid"
var TokenChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_checks_total",
		Help:      "Total number of access-guard token verifications, labelled by result.",
	},
	[]string{"result"},
)
