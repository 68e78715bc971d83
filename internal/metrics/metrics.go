// Package metrics exposes Prometheus instrumentation for the card
// cache. The create/delete counters encode the ownership invariant:
// over the cache's lifetime the two totals must end equal.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	NativeCreatesTotal prometheus.Counter
	NativeDeletesTotal prometheus.Counter
	EvictionsTotal     prometheus.Counter
	PassesTotal        prometheus.Counter
	PassDuration       prometheus.Histogram
	CacheEntries       prometheus.Gauge
}

// New creates and registers all metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		NativeCreatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcard_native_creates_total",
			Help: "Total number of native card handles created",
		}),
		NativeDeletesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcard_native_deletes_total",
			Help: "Total number of native card handles deleted",
		}),
		EvictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcard_cache_evictions_total",
			Help: "Total number of cache entries evicted",
		}),
		PassesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vcard_reconcile_passes_total",
			Help: "Total number of full reconciliation passes",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vcard_reconcile_duration_seconds",
			Help:    "Duration of full reconciliation passes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vcard_cache_entries",
			Help: "Current number of valid cached cards",
		}),
	}

	registry.MustRegister(
		m.NativeCreatesTotal,
		m.NativeDeletesTotal,
		m.EvictionsTotal,
		m.PassesTotal,
		m.PassDuration,
		m.CacheEntries,
	)
	return m
}

// Handler returns an HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HandleCreated implements cardcache.Recorder.
func (m *Metrics) HandleCreated() { m.NativeCreatesTotal.Inc() }

// HandleDeleted implements cardcache.Recorder.
func (m *Metrics) HandleDeleted() { m.NativeDeletesTotal.Inc() }

// EntryEvicted implements cardcache.Recorder.
func (m *Metrics) EntryEvicted() { m.EvictionsTotal.Inc() }

// PassCompleted implements cardcache.Recorder.
func (m *Metrics) PassCompleted(d time.Duration, entries int) {
	m.PassesTotal.Inc()
	m.PassDuration.Observe(d.Seconds())
	m.CacheEntries.Set(float64(entries))
}
