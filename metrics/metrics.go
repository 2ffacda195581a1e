// Package metrics exposes Prometheus counters for batch runs. A run can
// dump them to a node_exporter textfile when it finishes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rustyeddy/ind/market"
)

// File outcomes.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Metrics holds all collectors of one process. Each instance has its own
// registry.
type Metrics struct {
	reg *prometheus.Registry

	FilesTotal     *prometheus.CounterVec // labels: status
	FileDuration   prometheus.Histogram
	RowsIngested   prometheus.Counter
	RowsDropped    prometheus.Counter
	RowsDuplicated prometheus.Counter

	IndicatorDuration *prometheus.HistogramVec // labels: indicator
	IndicatorErrors   *prometheus.CounterVec   // labels: indicator

	LastRun prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),

		FilesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ind_files_total",
			Help: "Input files processed, by outcome",
		}, []string{"status"}),
		FileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ind_file_duration_seconds",
			Help:    "Time to load, enrich and save one file",
			Buckets: prometheus.DefBuckets,
		}),
		RowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ind_rows_ingested_total",
			Help: "Rows kept after cleaning",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ind_rows_dropped_total",
			Help: "Rows dropped because a field failed coercion",
		}),
		RowsDuplicated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ind_rows_duplicated_total",
			Help: "Rows replaced by a later row with the same timestamp",
		}),

		IndicatorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ind_indicator_duration_seconds",
			Help:    "Indicator compute latency per series",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"indicator"}),
		IndicatorErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ind_indicator_errors_total",
			Help: "Indicator computations that failed",
		}, []string{"indicator"}),

		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ind_last_run_timestamp_seconds",
			Help: "Unix time the last batch run finished",
		}),
	}

	m.reg.MustRegister(
		m.FilesTotal,
		m.FileDuration,
		m.RowsIngested,
		m.RowsDropped,
		m.RowsDuplicated,
		m.IndicatorDuration,
		m.IndicatorErrors,
		m.LastRun,
	)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveIndicator records one indicator computation.
func (m *Metrics) ObserveIndicator(name string, elapsed time.Duration, err error) {
	m.IndicatorDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		m.IndicatorErrors.WithLabelValues(name).Inc()
	}
}

// ObserveIngest records the cleaning report of one file.
func (m *Metrics) ObserveIngest(rep *market.BuildReport) {
	if rep == nil {
		return
	}
	m.RowsIngested.Add(float64(rep.Kept))
	m.RowsDropped.Add(float64(len(rep.Dropped)))
	m.RowsDuplicated.Add(float64(rep.Duplicates))
}

// ObserveFile records the outcome of one file.
func (m *Metrics) ObserveFile(err error, elapsed time.Duration) {
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	m.FilesTotal.WithLabelValues(status).Inc()
	m.FileDuration.Observe(elapsed.Seconds())
}

// MarkRun stamps the end of a batch run.
func (m *Metrics) MarkRun(t time.Time) {
	m.LastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes every metric in the text exposition format,
// atomically replacing path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
