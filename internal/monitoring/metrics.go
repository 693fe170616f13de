// internal/monitoring/metrics.go
package monitoring

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/valpere/SolarArchiver/internal/lister"
)

// Metrics collects Prometheus metrics for archive crawls and catalog builds.
type Metrics struct {
	fetchesTotal    *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	fetchErrors     *prometheus.CounterVec
	linksDiscovered prometheus.Counter
	sessionsBuilt   prometheus.Counter
	sessionsMerged  prometheus.Counter
	catalogSize     prometheus.Gauge
}

// NewMetrics registers the archiver metrics on a fresh registry and
// returns both.
func NewMetrics(namespace string) (*Metrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		fetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Total directory listing fetches by status",
		}, []string{"status"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Directory listing fetch latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		fetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Fetch failures by kind",
		}, []string{"kind"}),
		linksDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_discovered_total",
			Help:      "Media links discovered during crawls",
		}),
		sessionsBuilt: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_built_total",
			Help:      "Observation sessions produced by catalog builds",
		}),
		sessionsMerged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_merged_total",
			Help:      "New sessions accepted by catalog merges",
		}),
		catalogSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_sessions",
			Help:      "Sessions in the persisted catalog",
		}),
	}
	return m, registry
}

// RecordFetch records one listing fetch outcome.
func (m *Metrics) RecordFetch(ok bool, duration time.Duration) {
	status := strconv.FormatBool(ok)
	m.fetchesTotal.WithLabelValues(status).Inc()
	m.fetchDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordFetchError records a failed fetch with an error kind label.
func (m *Metrics) RecordFetchError(kind string) {
	m.fetchErrors.WithLabelValues(kind).Inc()
}

// AddLinksDiscovered records links found during a crawl.
func (m *Metrics) AddLinksDiscovered(n int) {
	m.linksDiscovered.Add(float64(n))
}

// AddSessionsBuilt records sessions produced by a catalog build.
func (m *Metrics) AddSessionsBuilt(n int) {
	m.sessionsBuilt.Add(float64(n))
}

// AddSessionsMerged records new sessions accepted by a merge.
func (m *Metrics) AddSessionsMerged(n int) {
	m.sessionsMerged.Add(float64(n))
}

// SetCatalogSize records the current catalog size.
func (m *Metrics) SetCatalogSize(n int) {
	m.catalogSize.Set(float64(n))
}

// Handler returns an HTTP handler exposing the registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// InstrumentedLister wraps a lister and records fetch metrics.
type InstrumentedLister struct {
	next    lister.Lister
	metrics *Metrics
}

// NewInstrumentedLister wraps next with metric recording.
func NewInstrumentedLister(next lister.Lister, metrics *Metrics) *InstrumentedLister {
	return &InstrumentedLister{next: next, metrics: metrics}
}

// FetchAndList delegates to the wrapped lister and records the outcome.
func (l *InstrumentedLister) FetchAndList(ctx context.Context, url string) ([]string, error) {
	start := time.Now()
	hrefs, err := l.next.FetchAndList(ctx, url)
	l.metrics.RecordFetch(err == nil, time.Since(start))
	if err != nil {
		kind := "fetch"
		if lister.IsNotFound(err) {
			kind = "not_found"
		}
		l.metrics.RecordFetchError(kind)
	}
	return hrefs, err
}
