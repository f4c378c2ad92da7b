package http

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"songbridge/internal/flood"
)

// Metrics holds the service's Prometheus collectors. They live in their own
// registry so several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	ConversionsTotal   *prometheus.CounterVec
	UpstreamTotal      *prometheus.CounterVec
	CacheRequestsTotal *prometheus.CounterVec
	RateLimitedTotal   prometheus.Counter
	ConversionDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ConversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbridge_conversions_total",
				Help: "Total number of conversion requests by outcome",
			},
			[]string{"status"},
		),
		UpstreamTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbridge_upstream_requests_total",
				Help: "Total number of platform lookups and searches",
			},
			[]string{"platform", "status"},
		),
		CacheRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "songbridge_cache_requests_total",
				Help: "Total number of result cache lookups",
			},
			[]string{"result"},
		),
		RateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "songbridge_rate_limited_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
		),
		ConversionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "songbridge_conversion_duration_seconds",
				Help:    "Time spent converting a link",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(
		m.ConversionsTotal,
		m.UpstreamTotal,
		m.CacheRequestsTotal,
		m.RateLimitedTotal,
		m.ConversionDuration,
	)
	return m
}

// Registry exposes the collectors for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordConversion(status string, duration time.Duration) {
	m.ConversionsTotal.WithLabelValues(status).Inc()
	m.ConversionDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordUpstream(platform, status string) {
	m.UpstreamTotal.WithLabelValues(platform, status).Inc()
}

func (m *Metrics) RecordCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}

// ObserveRateLimiter exports how many clients the limiter is tracking.
func (m *Metrics) ObserveRateLimiter(limiter *flood.Floodgate) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "songbridge_rate_limiter_clients",
			Help: "Number of clients tracked by the rate limiter",
		},
		func() float64 { return float64(limiter.GetStats().ActiveClients) },
	))
}

// ObserveCache exports the number of live result cache entries.
func (m *Metrics) ObserveCache(entries func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "songbridge_cache_entries",
			Help: "Number of conversions held in the result cache",
		},
		func() float64 { return float64(entries()) },
	))
}
