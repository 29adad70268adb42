package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics covers both halves of the system: the background fingerprint
// pipeline and on-demand bundle generation. A private registry keeps the
// default Go collectors out of the scrape.
type Metrics struct {
	registry *prometheus.Registry

	fingerprintTotal    *prometheus.CounterVec
	fingerprintDuration *prometheus.HistogramVec
	fingerprintInFlight prometheus.Gauge
	queueLag            prometheus.Histogram

	generateTotal    *prometheus.CounterVec
	generateDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	fingerprintTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bundler",
			Subsystem: "pipeline",
			Name:      "fingerprint_total",
			Help:      "Total fingerprint resolutions by status.",
		},
		[]string{"status"},
	)
	fingerprintDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bundler",
			Subsystem: "pipeline",
			Name:      "fingerprint_duration_seconds",
			Help:      "Fingerprint resolution duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	fingerprintInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bundler",
			Subsystem: "pipeline",
			Name:      "fingerprint_in_flight",
			Help:      "Number of fingerprint resolutions currently running.",
		},
	)
	queueLag := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bundler",
			Subsystem: "pipeline",
			Name:      "queue_lag_seconds",
			Help:      "Delay between upload and fingerprint resolution start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	generateTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bundler",
			Subsystem: "generator",
			Name:      "artifact_total",
			Help:      "Total generated artifacts by kind and status.",
		},
		[]string{"kind", "status"},
	)
	generateDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bundler",
			Subsystem: "generator",
			Name:      "artifact_duration_seconds",
			Help:      "Artifact generation duration in seconds by kind and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind", "status"},
	)

	registry.MustRegister(
		fingerprintTotal, fingerprintDuration, fingerprintInFlight, queueLag,
		generateTotal, generateDuration,
	)

	return &Metrics{
		registry:            registry,
		fingerprintTotal:    fingerprintTotal,
		fingerprintDuration: fingerprintDuration,
		fingerprintInFlight: fingerprintInFlight,
		queueLag:            queueLag,
		generateTotal:       generateTotal,
		generateDuration:    generateDuration,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) StartFingerprint() {
	m.fingerprintInFlight.Inc()
}

func (m *Metrics) FinishFingerprint(duration time.Duration, failed bool) {
	m.fingerprintInFlight.Dec()

	status := "verified"
	if failed {
		status = "failed"
	}

	m.fingerprintTotal.WithLabelValues(status).Inc()
	m.fingerprintDuration.WithLabelValues(status).Observe(duration.Seconds())
}

func (m *Metrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}

func (m *Metrics) FinishGeneration(kind string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.generateTotal.WithLabelValues(kind, status).Inc()
	m.generateDuration.WithLabelValues(kind, status).Observe(duration.Seconds())
}
