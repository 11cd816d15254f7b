// Package metric provides Prometheus metrics for Hudson Bay outposts.
//
// It exposes request rates and latencies, cache effectiveness, retry
// behavior and synchronization outcomes in Prometheus format.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Response cache metrics
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter

	// Executor metrics
	RetryAttempts *prometheus.CounterVec

	// Session metrics
	SessionsIssued prometheus.Counter
	LoginFailures  prometheus.Counter

	// Sync metrics
	SyncRuns    *prometheus.CounterVec
	SyncRecords *prometheus.CounterVec

	// Inventory metrics
	RecordCount prometheus.Gauge
}

// NewRegistry creates a metrics registry with all collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	r := &Registry{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hudsonbay_requests_total",
			Help: "Total HTTP requests processed, by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hudsonbay_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hudsonbay_cache_hits_total",
			Help: "Response cache lookups served from a fresh entry.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hudsonbay_cache_misses_total",
			Help: "Response cache lookups that required a fetch.",
		}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hudsonbay_cache_evictions_total",
			Help: "Response cache entries evicted to honor the capacity bound.",
		}),
		RetryAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hudsonbay_retry_attempts_total",
			Help: "Executor retry attempts, by fault category.",
		}, []string{"category"}),
		SessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hudsonbay_sessions_issued_total",
			Help: "Session tokens issued by successful logins.",
		}),
		LoginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hudsonbay_login_failures_total",
			Help: "Login attempts rejected for bad credentials or rate limits.",
		}),
		SyncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hudsonbay_sync_runs_total",
			Help: "Synchronization runs, by merge strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		SyncRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hudsonbay_sync_records_total",
			Help: "Inventory records touched during imports, by action.",
		}, []string{"action"}),
		RecordCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hudsonbay_inventory_records",
			Help: "Current number of inventory records in the store.",
		}),
	}

	reg.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.CacheHits,
		r.CacheMisses,
		r.CacheEvictions,
		r.RetryAttempts,
		r.SessionsIssued,
		r.LoginFailures,
		r.SyncRuns,
		r.SyncRecords,
		r.RecordCount,
	)

	return r
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveSync records the outcome of one import into the sync counters.
func (r *Registry) ObserveSync(strategy, outcome string, added, updated, skipped int) {
	r.SyncRuns.WithLabelValues(strategy, outcome).Inc()
	r.SyncRecords.WithLabelValues("added").Add(float64(added))
	r.SyncRecords.WithLabelValues("updated").Add(float64(updated))
	r.SyncRecords.WithLabelValues("skipped").Add(float64(skipped))
}
