// Package metrics exposes Prometheus counters for the ingest and forwarding
// paths. Each Metrics value owns its registry, so tests and multiple
// servers in one process do not collide.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	ingest          *prometheus.CounterVec
	forward         *prometheus.CounterVec
	forwardDuration prometheus.Histogram
	archive         *prometheus.CounterVec
}

// New registers the mailgate collectors. activeSessions, if not nil, is
// sampled on every scrape.
func New(activeSessions func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		ingest: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailgate_ingest_total",
				Help: "Inbound webhook results, known values: stored, mailbox_not_found, invalid, error.",
			},
			[]string{"status"},
		),
		forward: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailgate_forward_total",
				Help: "Forwarding attempts by result: delivered, failed, skipped.",
			},
			[]string{"result"},
		),
		forwardDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mailgate_forward_duration_seconds",
				Help:    "Duration of forwarding transport calls.",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 20, 30},
			},
		),
		archive: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailgate_archive_total",
				Help: "Message archive uploads by result: ok, error.",
			},
			[]string{"result"},
		),
	}

	if activeSessions != nil {
		f.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "mailgate_sessions_active",
				Help: "Number of live sessions.",
			},
			func() float64 { return float64(activeSessions()) },
		)
	}

	return m
}

func (m *Metrics) IngestResult(status string) {
	m.ingest.WithLabelValues(status).Inc()
}

// ForwardResult counts a forwarding attempt. Skipped attempts never reached
// a transport and are not timed.
func (m *Metrics) ForwardResult(result string, d time.Duration) {
	m.forward.WithLabelValues(result).Inc()
	if result != "skipped" {
		m.forwardDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) ArchiveResult(err error) {
	if err != nil {
		m.archive.WithLabelValues("error").Inc()
		return
	}
	m.archive.WithLabelValues("ok").Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
