package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// Outcome labels for dispatched requests.
const (
	OutcomeOK               = "ok"
	OutcomeValidation       = "validation_failed"
	OutcomeNotFound         = "not_found"
	OutcomeConflict         = "conflict"
	OutcomeUnsupportedMedia = "unsupported_media"
	OutcomeCancelled        = "cancelled"
	OutcomeError            = "error"
)

// Outcome classifies a handler result into one of the outcome labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, domain.ErrUnsupportedMedia):
		return OutcomeUnsupportedMedia
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}

// Metrics records dispatch counts and latencies per request type.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sighting_registry",
				Subsystem: "dispatch",
				Name:      "requests_total",
				Help:      "Dispatched requests by request type and outcome.",
			},
			[]string{"request", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sighting_registry",
				Subsystem: "dispatch",
				Name:      "request_duration_seconds",
				Help:      "Time spent validating and handling a request.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"request"},
		),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(request, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(request, outcome).Inc()
	m.duration.WithLabelValues(request).Observe(elapsed.Seconds())
}
