package preview

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects preview server metrics on a private registry.
type Metrics struct {
	registry      *prom.Registry
	builds        *prom.CounterVec
	buildDuration prom.Histogram
	watcherEvents prom.Counter
	clients       prom.Gauge
}

// NewMetrics constructs and registers the preview metrics.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prom.NewRegistry()}
	m.builds = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "docsmith",
		Name:      "preview_builds_total",
		Help:      "Preview rebuilds by outcome",
	}, []string{"result"})
	m.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "docsmith",
		Name:      "preview_build_duration_seconds",
		Help:      "Duration of preview rebuilds",
		Buckets:   prom.DefBuckets,
	})
	m.watcherEvents = prom.NewCounter(prom.CounterOpts{
		Namespace: "docsmith",
		Name:      "preview_watcher_events_total",
		Help:      "Filesystem events observed by the preview watcher",
	})
	m.clients = prom.NewGauge(prom.GaugeOpts{
		Namespace: "docsmith",
		Name:      "preview_livereload_clients",
		Help:      "Currently connected livereload clients",
	})
	m.registry.MustRegister(m.builds, m.buildDuration, m.watcherEvents, m.clients)
	return m
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveBuild records one rebuild outcome and duration.
func (m *Metrics) ObserveBuild(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.builds.WithLabelValues(result).Inc()
	m.buildDuration.Observe(d.Seconds())
}

// IncWatcherEvent counts one filesystem event.
func (m *Metrics) IncWatcherEvent() {
	if m == nil {
		return
	}
	m.watcherEvents.Inc()
}

// SetClients records the connected livereload client count.
func (m *Metrics) SetClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}
