// Package metrics holds the prometheus collectors of the service.
// Collectors are registered on the default registry at init time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ─────────────────────────────
	// Remote catalog
	// ─────────────────────────────

	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgr_remote_requests_total",
			Help: "Outbound requests to the remote catalog by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: ok, not_found, error, rejected
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bgr_remote_request_duration_seconds",
			Help:    "Duration of outbound remote catalog requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	RemoteRateLimitWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bgr_remote_rate_limit_wait_seconds",
			Help:    "Time spent waiting for the remote catalog rate limiter",
			Buckets: []float64{0, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	RemoteRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgr_remote_retries_total",
			Help: "Retried remote catalog calls by endpoint",
		},
		[]string{"endpoint"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bgr_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	PayloadCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgr_payload_cache_total",
			Help: "Remote payload cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)

	// ─────────────────────────────
	// Reconciliation & reviews
	// ─────────────────────────────

	ReconcileDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgr_reconcile_decisions_total",
			Help: "Reconciliation outcomes by decision kind",
		},
		[]string{"decision"},
	)

	SimilarityScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bgr_similarity_scan_duration_seconds",
			Help:    "Duration of full catalog similarity scans",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	ReviewDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgr_review_decisions_total",
			Help: "Review validation outcomes by rule group (accepted when no rule fired)",
		},
		[]string{"rule"},
	)

	// ─────────────────────────────
	// Background jobs
	// ─────────────────────────────

	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgr_sync_runs_total",
			Help: "Background sync runs by job and outcome",
		},
		[]string{"job", "outcome"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bgr_catalog_games",
			Help: "Number of games currently in the catalog",
		},
	)
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)
