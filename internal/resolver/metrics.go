package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// Outcomes recorded in stash_resolver_requests_total.
const (
	OutcomeResolved = "resolved"
	OutcomeCached   = "cached"
	OutcomeDegraded = "degraded"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics is nil-safe: a nil *Metrics records nothing.
type Metrics struct {
	Requests      *prometheus.CounterVec
	FetchDuration prometheus.Histogram
}

// NewMetrics registers the resolver collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stash_resolver_requests_total",
				Help: "Link metadata resolutions by source type and outcome",
			},
			[]string{"type", "outcome"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stash_resolver_fetch_duration_seconds",
				Help:    "Time spent fetching target pages",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.Requests, m.FetchDuration)
	return m
}

func (m *Metrics) observe(t domain.SourceType, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(string(t), outcome).Inc()
}

func (m *Metrics) observeFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}
