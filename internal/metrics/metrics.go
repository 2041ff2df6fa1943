// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options control metrics configuration.
type Options struct {
	// Namespace prefixes every metric name. Defaults to "recipebook".
	Namespace string
	// DisableRuntimeCollectors skips the Go runtime and process collectors.
	DisableRuntimeCollectors bool
}

// Metrics owns a Prometheus registry and the application collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	mediaOps        *prometheus.CounterVec
}

// New constructs Metrics with its own registry.
func New(opts Options) (*Metrics, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "recipebook"
	}

	registry := prometheus.NewRegistry()
	if !opts.DisableRuntimeCollectors {
		if err := registry.Register(prometheus.NewGoCollector()); err != nil {
			return nil, err
		}
		if err := registry.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{})); err != nil {
			return nil, err
		}
	}

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Query cache lookups by resource and result (hit|miss)",
			},
			[]string{"resource", "result"},
		),
		mediaOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "media_operations_total",
				Help:      "Media store operations by operation (upload|delete) and result (success|error)",
			},
			[]string{"operation", "result"},
		),
	}

	for _, c := range []prometheus.Collector{m.requestDuration, m.cacheLookups, m.mediaOps} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Registry exposes the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// CacheLookup records a query cache hit or miss for resource.
func (m *Metrics) CacheLookup(resource string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(resource, result).Inc()
}

// MediaOperation records the outcome of a media store call.
func (m *Metrics) MediaOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.mediaOps.WithLabelValues(operation, result).Inc()
}
