// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipebox"

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Number of API requests currently being served",
		},
	)

	// Similarity Metrics
	SimilarityComputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "similarity_computations_total",
			Help:      "Total number of pairwise similarity scores computed",
		},
	)

	WarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Duplicate warnings produced, by level",
		},
		[]string{"level"}, // "high_similarity", "moderate_similarity", "none"
	)

	// Learning Metrics
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_total",
			Help:      "Interactions recorded, by signal and decision",
		},
		[]string{"signal", "decision"},
	)

	InteractionsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_deduplicated_total",
			Help:      "Interaction submissions acknowledged as duplicates of an earlier event ID",
		},
	)

	OnlineUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "online_updates_total",
			Help:      "Online weight updates persisted",
		},
		[]string{"signal"},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_runs_total",
			Help:      "Batch training runs by outcome",
		},
		[]string{"signal", "method", "result"}, // result: "success", "error", "skipped"
	)

	TrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "training_duration_seconds",
			Help:      "Duration of batch training runs",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"signal"},
	)

	TrainingQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "training_queue_depth",
			Help:      "Training jobs waiting to run",
		},
	)

	WeightsUpdated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weights_updated_total",
			Help:      "weights.updated events consumed, by learning method",
		},
		[]string{"method"},
	)

	// Ranking Metrics
	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "End-to-end recommendation ranking latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	RankingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranking_fallbacks_total",
			Help:      "Rankings served by the degraded heuristic, by reason",
		},
		[]string{"reason"},
	)

	CandidateFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_fetch_errors_total",
			Help:      "Candidate source failures",
		},
		[]string{"reason"}, // "timeout", "unavailable", "error"
	)

	CandidateBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidate_breaker_state",
			Help:      "Candidate source circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Infrastructure Metrics
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Store operation failures",
		},
		[]string{"operation"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache and result",
		},
		[]string{"cache", "result"}, // result: "hit", "miss"
	)

	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSimilarity counts n pairwise similarity computations.
func RecordSimilarity(n int) {
	SimilarityComputations.Add(float64(n))
}

// RecordWarning counts a warning outcome. An empty level counts as "none".
func RecordWarning(level string) {
	if level == "" {
		level = "none"
	}
	WarningsTotal.WithLabelValues(level).Inc()
}

// RecordInteraction counts a recorded interaction.
func RecordInteraction(signal, decision string) {
	InteractionsTotal.WithLabelValues(signal, decision).Inc()
}

// RecordDuplicateInteraction counts a deduplicated submission.
func RecordDuplicateInteraction() {
	InteractionsDeduplicated.Inc()
}

// RecordOnlineUpdate counts a persisted online update.
func RecordOnlineUpdate(signal string) {
	OnlineUpdates.WithLabelValues(signal).Inc()
}

// RecordTraining records a batch training run. method is empty when the
// run failed before a fit was produced.
func RecordTraining(signal, method string, duration time.Duration, err error) {
	result := "success"
	switch {
	case err != nil:
		result = "error"
	case method == "":
		result = "skipped"
	}
	if method == "" {
		method = "none"
	}
	TrainingRuns.WithLabelValues(signal, method, result).Inc()
	TrainingDuration.WithLabelValues(signal).Observe(duration.Seconds())
}

// SetTrainingQueueDepth publishes the number of pending training jobs.
func SetTrainingQueueDepth(n int) {
	TrainingQueueDepth.Set(float64(n))
}

// RecordWeightsUpdated counts a consumed weights.updated event.
func RecordWeightsUpdated(method string) {
	WeightsUpdated.WithLabelValues(method).Inc()
}

// RecordRanking records a ranking request and, for fallbacks, its reason.
func RecordRanking(mode, reason string, duration time.Duration) {
	RankingDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if reason != "" {
		RankingFallbacks.WithLabelValues(reason).Inc()
	}
}

// RecordCandidateFetchError counts a failed candidate fetch.
func RecordCandidateFetchError(reason string) {
	CandidateFetchErrors.WithLabelValues(reason).Inc()
}

// SetCandidateBreakerState publishes the breaker state by name.
func SetCandidateBreakerState(state string) {
	switch state {
	case "half-open":
		CandidateBreakerState.Set(1)
	case "open":
		CandidateBreakerState.Set(2)
	default:
		CandidateBreakerState.Set(0)
	}
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(operation string) {
	StoreErrors.WithLabelValues(operation).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}
