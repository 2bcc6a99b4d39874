package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "forecast"

// Metrics holds the Prometheus counters, histograms, and gauges for the forecast poller.
type Metrics struct {
	// Upstream API metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,api_error,transport_error,decode_error}
	FetchDuration prometheus.Histogram
	DecodeErrors  *prometheus.CounterVec // labels: kind={malformed,missing_field,corrupt_binary}

	// Cache metrics.
	Cache *prometheus.CounterVec // labels: result={hit,miss,expired}

	// Poller metrics.
	SnapshotsStored *prometheus.CounterVec // labels: sink={kafka,postgres}
	SinkErrors      *prometheus.CounterVec // labels: sink={kafka,postgres}
	PollDuration    prometheus.Histogram
	PollerRunning   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.DecodeErrors,
		m.Cache,
		m.SnapshotsStored,
		m.SinkErrors,
		m.PollDuration,
		m.PollerRunning,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Forecast API requests by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Forecast API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Forecast documents that failed to decode, by error kind.",
		}, []string{"kind"}),
		Cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_total",
			Help:      "Forecast cache lookups by result.",
		}, []string{"result"}),
		SnapshotsStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_stored_total",
			Help:      "Forecast snapshots written, by sink.",
		}, []string{"sink"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Failed snapshot batch writes, by sink.",
		}, []string{"sink"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of one fetch-and-store cycle over all locations.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "poller_running",
			Help:      "1 when the poller is active, 0 when shut down.",
		}),
	}
}
