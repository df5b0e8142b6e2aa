// Package prometheus exposes the service metrics: HTTP request counters
// and latency, plus pipeline-level gauges for cache behaviour and the join
// diagnostics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service registers.  One instance per
// process; all collectors live on a private registry so tests can build
// isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	pipelineRecords  prometheus.Gauge
	pipelineRegions  prometheus.Gauge

	unmatchedStats    prometheus.Gauge
	unmatchedFeatures prometheus.Gauge
}

// New builds and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stuntmap",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stuntmap",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stuntmap",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline dataset builds by cache outcome.",
		}, []string{"cache"}),
		pipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stuntmap",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "End-to-end dataset build latency.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		pipelineRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stuntmap",
			Subsystem: "pipeline",
			Name:      "records",
			Help:      "Screening records in the last dataset build.",
		}),
		pipelineRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stuntmap",
			Subsystem: "pipeline",
			Name:      "regions",
			Help:      "Distinct region keys in the last dataset build.",
		}),
		unmatchedStats: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stuntmap",
			Subsystem: "pipeline",
			Name:      "unmatched_record_regions",
			Help:      "Record regions with no boundary match in the last build.",
		}),
		unmatchedFeatures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stuntmap",
			Subsystem: "pipeline",
			Name:      "unmatched_boundary_regions",
			Help:      "Boundary regions with no screening data in the last build.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.pipelineRuns,
		m.pipelineDuration,
		m.pipelineRecords,
		m.pipelineRegions,
		m.unmatchedStats,
		m.unmatchedFeatures,
	)
	return m
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObservePipeline records one dataset build.
func (m *Metrics) ObservePipeline(duration time.Duration, records, regions int, cacheHit bool) {
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	m.pipelineRuns.WithLabelValues(outcome).Inc()
	m.pipelineDuration.Observe(duration.Seconds())
	if !cacheHit {
		m.pipelineRecords.Set(float64(records))
		m.pipelineRegions.Set(float64(regions))
	}
}

// SetUnmatched records the join diagnostics of the last build.
func (m *Metrics) SetUnmatched(statsSide, featureSide int) {
	m.unmatchedStats.Set(float64(statsSide))
	m.unmatchedFeatures.Set(float64(featureSide))
}
