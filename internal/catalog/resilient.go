package catalog

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"destination-recommender/internal/common/logger"
	"destination-recommender/internal/common/metrics"
	"destination-recommender/internal/models"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Catalog load outcomes reported on the catalog_loads_total counter.
const (
	LoadSuccess  = "success"
	LoadFailure  = "failure"
	LoadRejected = "rejected"
	LoadSnapshot = "snapshot"
	LoadFallback = "fallback"
)

// BreakerSettings configures the circuit breaker guarding the primary source.
type BreakerSettings struct {
	FailureThreshold uint32        // consecutive failures before opening
	OpenTimeout      time.Duration // time spent open before a half-open trial
	MaxHalfOpen      uint32        // trial requests allowed while half-open
}

type ResilientOption func(*ResilientSource)

func WithLogger(log logger.Logger) ResilientOption {
	return func(r *ResilientSource) { r.logger = log }
}

// WithFallback serves fallback when the primary fails and no snapshot exists.
func WithFallback(fallback Source) ResilientOption {
	return func(r *ResilientSource) { r.fallback = fallback }
}

func WithBreaker(s BreakerSettings) ResilientOption {
	return func(r *ResilientSource) { r.breaker = &s }
}

// ResilientSource guards a primary source with an optional circuit breaker
// and remembers the last catalog it loaded successfully. When the primary
// fails, or the breaker rejects the call, the snapshot is served; without a
// snapshot the fallback source is tried.
//
// The returned slice is shared between callers and must not be modified.
type ResilientSource struct {
	primary  Source
	fallback Source
	logger   logger.Logger
	breaker  *BreakerSettings
	cb       *gobreaker.CircuitBreaker[[]models.Destination]

	mu       sync.RWMutex
	snapshot []models.Destination
}

func NewResilientSource(primary Source, opts ...ResilientOption) *ResilientSource {
	r := &ResilientSource{primary: primary}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.NewNoOpLogger()
	}
	r.logger = r.logger.WithFields(map[string]interface{}{"catalogSource": primary.Name()})

	if r.breaker != nil {
		r.cb = newBreaker(primary.Name(), *r.breaker, r.logger)
	}
	return r
}

func newBreaker(name string, s BreakerSettings, log logger.Logger) *gobreaker.CircuitBreaker[[]models.Destination] {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.MaxHalfOpen == 0 {
		s.MaxHalfOpen = 1
	}
	metrics.CatalogBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[[]models.Destination](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxHalfOpen,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		// A caller giving up says nothing about the source's health.
		IsSuccessful: func(err error) bool {
			return err == nil || stderrors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("catalog breaker state changed", map[string]interface{}{
				"from": from.String(),
				"to":   to.String(),
			})
			metrics.CatalogBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
}

func (r *ResilientSource) Name() string { return r.primary.Name() }

// State reports the breaker state; closed when no breaker is configured.
func (r *ResilientSource) State() gobreaker.State {
	if r.cb == nil {
		return gobreaker.StateClosed
	}
	return r.cb.State()
}

func (r *ResilientSource) Load(ctx context.Context) ([]models.Destination, error) {
	items, err := r.loadPrimary(ctx)
	if err == nil {
		r.mu.Lock()
		r.snapshot = items
		r.mu.Unlock()
		metrics.CatalogLoads.WithLabelValues(r.Name(), LoadSuccess).Inc()
		return items, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	status := LoadFailure
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		status = LoadRejected
	}
	metrics.CatalogLoads.WithLabelValues(r.Name(), status).Inc()

	if snapshot := r.lastGood(); snapshot != nil {
		r.logger.Warn("serving last good catalog", map[string]interface{}{
			"error":        err,
			"destinations": len(snapshot),
		})
		metrics.CatalogLoads.WithLabelValues(r.Name(), LoadSnapshot).Inc()
		return snapshot, nil
	}

	if r.fallback != nil {
		fallbackItems, fallbackErr := r.fallback.Load(ctx)
		if fallbackErr == nil {
			r.logger.Warn("serving fallback catalog", map[string]interface{}{
				"error":    err,
				"fallback": r.fallback.Name(),
			})
			metrics.CatalogLoads.WithLabelValues(r.Name(), LoadFallback).Inc()
			return fallbackItems, nil
		}
		r.logger.Error("fallback catalog failed", map[string]interface{}{"error": fallbackErr})
	}

	return nil, loadFailed(r.Name(), err)
}

func (r *ResilientSource) loadPrimary(ctx context.Context) ([]models.Destination, error) {
	if r.cb == nil {
		return r.primary.Load(ctx)
	}
	return r.cb.Execute(func() ([]models.Destination, error) {
		return r.primary.Load(ctx)
	})
}

func (r *ResilientSource) lastGood() []models.Destination {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}
