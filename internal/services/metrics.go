package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the analytics core
type Metrics struct {
	// Context cache metrics
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter

	// Aggregation metrics
	Aggregations       prometheus.Counter
	AggregationLatency prometheus.Histogram
	DomainFailures     *prometheus.CounterVec

	// Analysis metrics
	AnalysisRequests prometheus.Counter
	AnalysisLatency  prometheus.Histogram
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics(cache *ContextCache) *Metrics {
	metrics := &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeboard_context_cache_hits_total",
			Help: "Total number of context cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeboard_context_cache_misses_total",
			Help: "Total number of context cache misses",
		}),
		CacheEvictions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeboard_context_cache_evictions_total",
			Help: "Total number of expired context entries pruned",
		}),

		Aggregations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeboard_aggregations_total",
			Help: "Total number of full context aggregation passes",
		}),
		AggregationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifeboard_aggregation_duration_seconds",
			Help:    "Context aggregation latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		DomainFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeboard_domain_fetch_failures_total",
			Help: "Total number of per-domain fetch failures by domain",
		}, []string{"domain"}),

		AnalysisRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeboard_analysis_requests_total",
			Help: "Total number of pattern analysis requests",
		}),
		AnalysisLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifeboard_analysis_duration_seconds",
			Help:    "Pattern analysis latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}

	// Gauge sampled from the live cache so /metrics reflects current state
	if cache != nil {
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "lifeboard_context_cache_entries",
				Help: "Current number of cached user contexts",
			},
			func() float64 { return float64(cache.Len()) },
		))
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordCacheHit records a context cache hit
func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// RecordCacheMiss records a context cache miss
func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

// RecordEvictions records pruned expired entries
func (m *Metrics) RecordEvictions(n int) {
	if m != nil && n > 0 {
		m.CacheEvictions.Add(float64(n))
	}
}

// RecordAggregation records one full aggregation pass with its latency
func (m *Metrics) RecordAggregation(seconds float64) {
	if m != nil {
		m.Aggregations.Inc()
		m.AggregationLatency.Observe(seconds)
	}
}

// RecordDomainFailure records a degraded domain fetch
func (m *Metrics) RecordDomainFailure(domain string) {
	if m != nil {
		m.DomainFailures.WithLabelValues(domain).Inc()
	}
}

// RecordAnalysis records one analysis pass with its latency
func (m *Metrics) RecordAnalysis(seconds float64) {
	if m != nil {
		m.AnalysisRequests.Inc()
		m.AnalysisLatency.Observe(seconds)
	}
}
