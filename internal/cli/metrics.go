package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/radiant/pkg/observability"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

const metricsNamespace = "radiant"

// metrics implements the observability hooks with Prometheus collectors.
type metrics struct {
	layouts       *prometheus.HistogramVec
	selects       *prometheus.CounterVec
	transitions   *prometheus.HistogramVec
	cacheRequests *prometheus.CounterVec
	cacheBytes    prometheus.Counter
	evictions     prometheus.Counter
	preloads      *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// newMetrics creates the collectors and registers them with reg.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		layouts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "layout",
			Name:      "duration_seconds",
			Help:      "Radial layout computation time by breakpoint",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"breakpoint"}),
		selects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "selection",
			Name:      "selects_total",
			Help:      "Select requests by node depth and outcome",
		}, []string{"depth", "status"}),
		transitions: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "selection",
			Name:      "transition_seconds",
			Help:      "Transition run time by outcome",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"status"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "content_cache",
			Name:      "requests_total",
			Help:      "Content cache lookups by result",
		}, []string{"result"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "content_cache",
			Name:      "stored_bytes_total",
			Help:      "Bytes written to the content cache",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "content_cache",
			Name:      "evictions_total",
			Help:      "Entries evicted by cleanup",
		}),
		preloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "content_cache",
			Name:      "preloads_total",
			Help:      "Preload fetches by outcome",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Outgoing HTTP requests by host and status code",
		}, []string{"host", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "upstream",
			Name:      "request_seconds",
			Help:      "Outgoing HTTP request latency by host",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
	}
	reg.MustRegister(
		m.layouts, m.selects, m.transitions,
		m.cacheRequests, m.cacheBytes, m.evictions, m.preloads,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// install routes every observability hook to m and returns the function
// that detaches it again.
func (m *metrics) install() (restore func()) {
	return observability.Install(observability.Hooks{Controller: m, Cache: m, HTTP: m})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Controller hooks

func (m *metrics) OnLayoutStart(context.Context, int) {}

func (m *metrics) OnLayoutComplete(_ context.Context, breakpoint string, d time.Duration) {
	m.layouts.WithLabelValues(breakpoint).Observe(d.Seconds())
}

func (m *metrics) OnSelect(_ context.Context, depth int, err error) {
	m.selects.WithLabelValues(strconv.Itoa(depth), status(err)).Inc()
}

func (m *metrics) OnTransitionComplete(_ context.Context, d time.Duration, cancelled bool) {
	s := "completed"
	if cancelled {
		s = "cancelled"
	}
	m.transitions.WithLabelValues(s).Observe(d.Seconds())
}

// Cache hooks

func (m *metrics) OnCacheHit(context.Context)  { m.cacheRequests.WithLabelValues("hit").Inc() }
func (m *metrics) OnCacheMiss(context.Context) { m.cacheRequests.WithLabelValues("miss").Inc() }

func (m *metrics) OnCacheSet(_ context.Context, size int) { m.cacheBytes.Add(float64(size)) }

func (m *metrics) OnCacheEvict(_ context.Context, n int) { m.evictions.Add(float64(n)) }

func (m *metrics) OnPreload(_ context.Context, err error) {
	m.preloads.WithLabelValues(status(err)).Inc()
}

// HTTP hooks

func (m *metrics) OnRequest(context.Context, string, string, string) {}

func (m *metrics) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(host, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpRequests.WithLabelValues(host, "error").Inc()
}
