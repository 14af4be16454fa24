// Package metrics provides Prometheus metrics for the FanCred score
// service. All metrics register against a private registry served on
// /healthz, so tests never fight over the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "fancred"

	// Buckets sized for in-process handlers plus simulated RPC latency.
	bucketStartMS = 1.0
	bucketFactor  = 2.0
	bucketCount   = 12
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status code.",
	}, []string{"endpoint", "method", "status"})

	httpDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   prometheus.ExponentialBuckets(bucketStartMS, bucketFactor, bucketCount),
	}, []string{"endpoint", "method", "status"})

	scoresComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scores_computed_total",
		Help:      "Superfan Score computations.",
	})

	actionsApplied = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_applied_total",
		Help:      "Activity actions applied, by action tag.",
	}, []string{"action"})

	ledgerReadFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_read_failures_total",
		Help:      "Holdings reads that failed and degraded to zero.",
	})

	leaderboardBuildDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "leaderboard_build_duration_ms",
		Help:      "Leaderboard fan-out build duration in milliseconds.",
		Buckets:   prometheus.ExponentialBuckets(bucketStartMS, bucketFactor, bucketCount),
	})

	sessionTransitions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Session state machine transitions, by target status.",
	}, []string{"status"})

	generations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "AI generation calls, by kind and outcome.",
	}, []string{"kind", "outcome"})

	trackedAccounts = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_accounts",
		Help:      "Accounts with an activity record.",
	})
)

// GetRegistry returns the registry all service metrics register with.
func GetRegistry() *prometheus.Registry { return registry }

// RecordHTTPRequest counts one handled request.
func RecordHTTPRequest(endpoint, method, status string) {
	httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one request's duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	httpDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// RecordScoreComputed counts one score computation.
func RecordScoreComputed() { scoresComputed.Inc() }

// RecordAction counts one applied activity action.
func RecordAction(action string) { actionsApplied.WithLabelValues(action).Inc() }

// RecordLedgerReadFailure counts one degraded holdings read.
func RecordLedgerReadFailure() { ledgerReadFailures.Inc() }

// ObserveLeaderboardBuild observes one leaderboard build duration.
func ObserveLeaderboardBuild(ms float64) { leaderboardBuildDuration.Observe(ms) }

// RecordSessionTransition counts one transition into the given status.
func RecordSessionTransition(status string) {
	sessionTransitions.WithLabelValues(status).Inc()
}

// RecordGeneration counts one successful generation call.
func RecordGeneration(kind string) {
	generations.WithLabelValues(kind, "ok").Inc()
}

// RecordGenerationFailure counts one failed generation call.
func RecordGenerationFailure(kind string) {
	generations.WithLabelValues(kind, "error").Inc()
}

// UpdateTrackedAccounts sets the tracked-accounts gauge.
func UpdateTrackedAccounts(n int) { trackedAccounts.Set(float64(n)) }
