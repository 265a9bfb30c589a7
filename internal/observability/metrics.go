package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a blotter run.
type Metrics struct {
	LinesRead       prometheus.Counter
	AccidentLines   prometheus.Counter
	RecordsWritten  prometheus.Counter
	MalformedLines  prometheus.Counter
	PipelineRunning prometheus.Gauge

	RunDuration       prometheus.Histogram
	SinkFlushDuration *prometheus.HistogramVec // labels: sink={csv,kafka}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.LinesRead,
		m.AccidentLines,
		m.RecordsWritten,
		m.MalformedLines,
		m.PipelineRunning,
		m.RunDuration,
		m.SinkFlushDuration,
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
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blotter",
			Name:      "lines_read_total",
			Help:      "Total input lines read across all reports.",
		}),
		AccidentLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blotter",
			Name:      "accident_lines_total",
			Help:      "Total lines found inside ACCIDENT sections.",
		}),
		RecordsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blotter",
			Name:      "records_written_total",
			Help:      "Total accident records handed to the sinks.",
		}),
		MalformedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blotter",
			Name:      "malformed_lines_total",
			Help:      "Total accident lines that failed to parse.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blotter",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "blotter",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-parse-write run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SinkFlushDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blotter",
			Name:      "sink_flush_duration_seconds",
			Help:      "Duration of a sink flush.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"sink"}),
	}
}
