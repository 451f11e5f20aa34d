package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "connection_matcher"

// Metrics holds the service's Prometheus instruments.
type Metrics struct {
	DatasetsLoaded prometheus.Counter
	RecordsIndexed prometheus.Gauge
	MatchRequests  *prometheus.CounterVec
	MatchDuration  prometheus.Histogram
}

// New registers and returns the service metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DatasetsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datasets_loaded_total",
			Help:      "Total datasets uploaded and indexed",
		}),

		RecordsIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_indexed",
			Help:      "Number of records in the current index",
		}),

		MatchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_requests_total",
			Help:      "Total match queries by outcome",
		}, []string{"outcome"}),

		MatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Match query duration",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}

	reg.MustRegister(
		m.DatasetsLoaded, m.RecordsIndexed,
		m.MatchRequests, m.MatchDuration,
	)

	return m
}
