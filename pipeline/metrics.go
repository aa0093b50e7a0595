package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics holds Prometheus metrics for export runs.
type runMetrics struct {
	registry *prometheus.Registry

	runs    *prometheus.CounterVec // By status (success/error)
	sites   *prometheus.CounterVec // By domain
	triples *prometheus.CounterVec // By domain
	files   *prometheus.CounterVec // By kind (rdf/geojson/ontology/diagram)

	runDuration prometheus.Histogram
}

// newRunMetrics creates the run metrics on a private registry.
func newRunMetrics() *runMetrics {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),

		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geolod",
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "Total number of export runs",
		}, []string{"status"}),

		sites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geolod",
			Subsystem: "export",
			Name:      "sites_total",
			Help:      "Total number of sites written",
		}, []string{"domain"}),

		triples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geolod",
			Subsystem: "export",
			Name:      "triples_total",
			Help:      "Total number of triples serialized",
		}, []string{"domain"}),

		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geolod",
			Subsystem: "export",
			Name:      "files_written_total",
			Help:      "Total number of files written",
		}, []string{"kind"}),

		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geolod",
			Subsystem: "export",
			Name:      "run_duration_seconds",
			Help:      "Export run duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	m.registry.MustRegister(m.runs, m.sites, m.triples, m.files, m.runDuration)
	return m
}

func (m *runMetrics) recordRun(err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(d.Seconds())
}

func (m *runMetrics) recordDomain(domain string, sites, triples int) {
	m.sites.WithLabelValues(domain).Add(float64(sites))
	m.triples.WithLabelValues(domain).Add(float64(triples))
}

func (m *runMetrics) recordFiles(kind string, n int) {
	m.files.WithLabelValues(kind).Add(float64(n))
}
