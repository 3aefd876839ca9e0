// Package metrics exposes rewrite outcomes as Prometheus metrics and writes
// them in the node_exporter textfile format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vitalvas/jsrewrite/batch"
)

const namespace = "jsrewrite"

// File results used as the "result" label.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultFailed    = "failed"
)

// Metrics records batch results. It implements batch.Observer.
type Metrics struct {
	registry *prometheus.Registry

	files    *prometheus.CounterVec
	rewrites *prometheus.CounterVec
	visited  prometheus.Counter
	duration prometheus.Histogram
	lastRun  prometheus.Gauge
}

// New registers the metrics on registry, or on a fresh registry when nil.
// The rewrite counter is initialised at zero for every name in rules.
func New(registry *prometheus.Registry, rules []string) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		files: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_total",
				Help:      "Files processed by result",
			},
			[]string{"result"},
		),
		rewrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rewrites_total",
				Help:      "Rule actions applied",
			},
			[]string{"rule"},
		),
		visited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_visited_total",
			Help:      "Tree nodes visited by the engine",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent parsing, rewriting and printing one file",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run",
		}),
	}

	for _, result := range []string{ResultChanged, ResultUnchanged, ResultFailed} {
		m.files.WithLabelValues(result)
	}
	for _, rule := range rules {
		m.rewrites.WithLabelValues(rule)
	}

	return m
}

// Observe records one file result.
func (m *Metrics) Observe(result batch.Result) {
	switch {
	case result.Err != nil:
		m.files.WithLabelValues(ResultFailed).Inc()
		return
	case result.Changed:
		m.files.WithLabelValues(ResultChanged).Inc()
	default:
		m.files.WithLabelValues(ResultUnchanged).Inc()
	}

	m.visited.Add(float64(result.Report.Visited))
	m.duration.Observe(result.Duration.Seconds())

	for rule, count := range result.Report.Rewrites {
		m.rewrites.WithLabelValues(rule).Add(float64(count))
	}
}

// RunCompleted stamps the end of a run.
func (m *Metrics) RunCompleted() {
	m.lastRun.SetToCurrentTime()
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
