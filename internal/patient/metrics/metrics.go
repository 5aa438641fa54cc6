package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for record loading and queries.
type Metrics struct {
	// Load outcomes by source and result ("ok", "not_found", "error")
	LoadOutcome *prometheus.CounterVec

	// Records available after the initial load
	RecordsLoaded prometheus.Gauge

	// Records backfilled with a random medical issue
	IssuesBackfilled prometheus.Counter

	// Full pipeline latency per query
	QueryLatency prometheus.Histogram

	// Matches per query before pagination
	QueryMatches prometheus.Histogram
}

// New creates the patient metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoadOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "patientdir_store_load_total",
			Help: "Record store load attempts by source and outcome",
		}, []string{"source", "outcome"}),

		RecordsLoaded: f.NewGauge(prometheus.GaugeOpts{
			Name: "patientdir_store_records",
			Help: "Number of patient records held in memory",
		}),

		IssuesBackfilled: f.NewCounter(prometheus.CounterOpts{
			Name: "patientdir_store_issues_backfilled_total",
			Help: "Records whose missing medical issue was filled at load time",
		}),

		QueryLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "patientdir_query_duration_seconds",
			Help:    "Duration of filter, sort and paginate over the record set",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),

		QueryMatches: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "patientdir_query_matches",
			Help:    "Records matching the filters of a query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// IncrementLoad records a load outcome.
func (m *Metrics) IncrementLoad(source, outcome string) {
	if m != nil {
		m.LoadOutcome.WithLabelValues(source, outcome).Inc()
	}
}

// SetRecords records how many records are loaded.
func (m *Metrics) SetRecords(n int) {
	if m != nil {
		m.RecordsLoaded.Set(float64(n))
	}
}

// AddBackfilled counts backfilled issues.
func (m *Metrics) AddBackfilled(n int) {
	if m != nil {
		m.IssuesBackfilled.Add(float64(n))
	}
}

// ObserveQuery records one pipeline run.
func (m *Metrics) ObserveQuery(d time.Duration, matches int) {
	if m != nil {
		m.QueryLatency.Observe(d.Seconds())
		m.QueryMatches.Observe(float64(matches))
	}
}
