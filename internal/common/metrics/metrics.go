// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// Ranking engine

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_ranking_duration_seconds",
			Help:    "Time spent scoring and sorting one catalog for one profile",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	DestinationsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_destinations_scored_total",
			Help: "Total number of destinations scored",
		},
	)

	TopMatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_top_match_score",
			Help:    "Final score of the best ranked destination",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// Caches and catalog

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_lookups_total",
			Help: "Cache lookups by cache layer and outcome",
		},
		[]string{"cache", "result"},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog loads by source and outcome",
		},
		[]string{"source", "status"},
	)

	CatalogBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_breaker_state",
			Help: "Circuit breaker state per catalog source (0 closed, 1 half-open, 2 open)",
		},
		[]string{"source"},
	)
)

// Cache outcome labels.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)
