package agent

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks the agent's scrape-and-submit pipeline in Prometheus
// format. Registered in a dedicated registry so they do not interfere with
// the default global registry.
type Metrics struct {
	registry *prometheus.Registry

	submissions    *prometheus.CounterVec
	scrapeFailures *prometheus.CounterVec
	samplesScraped prometheus.Counter
	lastSubmission prometheus.Gauge
}

// NewMetrics creates the agent metric set in a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scaleaudit",
		Name:      "submissions_total",
		Help:      "Ledger write attempts by contract method and outcome.",
	}, []string{"method", "outcome"})

	scrapeFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scaleaudit",
		Name:      "scrape_failures_total",
		Help:      "Failed node metric scrapes by endpoint.",
	}, []string{"endpoint"})

	samplesScraped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scaleaudit",
		Name:      "samples_scraped_total",
		Help:      "Node metric samples successfully scraped.",
	})

	lastSubmission := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scaleaudit",
		Name:      "last_submission_timestamp_seconds",
		Help:      "Unix time of the last successful ledger write.",
	})

	reg.MustRegister(submissions)
	reg.MustRegister(scrapeFailures)
	reg.MustRegister(samplesScraped)
	reg.MustRegister(lastSubmission)

	return &Metrics{
		registry:       reg,
		submissions:    submissions,
		scrapeFailures: scrapeFailures,
		samplesScraped: samplesScraped,
		lastSubmission: lastSubmission,
	}
}

// Registry returns the registry for exposition handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSubmission counts one ledger write attempt.
func (m *Metrics) RecordSubmission(method, outcome string) {
	m.submissions.WithLabelValues(method, outcome).Inc()
	if outcome == "success" {
		m.lastSubmission.Set(float64(time.Now().Unix()))
	}
}

// RecordScrapeFailure counts one failed scrape of a node endpoint.
func (m *Metrics) RecordScrapeFailure(endpoint string) {
	m.scrapeFailures.WithLabelValues(endpoint).Inc()
}

// RecordSamples counts successfully scraped samples.
func (m *Metrics) RecordSamples(n int) {
	m.samplesScraped.Add(float64(n))
}
