package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the EPW
// parsing service.
type Metrics struct {
	FilesParsed   *prometheus.CounterVec // label: outcome={success,degraded,fatal}
	RowsParsed    prometheus.Counter
	RowsDropped   *prometheus.CounterVec // label: reason={missing_time,invalid_calendar,unified_year}
	ParseDuration prometheus.Histogram
	RowsPerFile   prometheus.Histogram

	// Cache and optional sink metrics.
	CacheLookups   *prometheus.CounterVec // label: result={hit,miss}
	ArchiveErrors  prometheus.Counter
	PublishErrors  prometheus.Counter
	ArchiveEnabled prometheus.Gauge
	PublishEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "files_parsed_total",
			Help:      "Parsed EPW files by outcome (success, degraded, fatal).",
		}, []string{"outcome"}),
		RowsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "rows_parsed_total",
			Help:      "Total data rows surviving the full pipeline.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "rows_dropped_total",
			Help:      "Data rows dropped per stage reason.",
		}, []string{"reason"}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "epw",
			Name:      "parse_duration_seconds",
			Help:      "Duration of a complete parse invocation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		RowsPerFile: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "epw",
			Name:      "rows_per_file",
			Help:      "Number of surviving rows per parsed file.",
			Buckets:   []float64{1, 24, 168, 720, 2190, 4380, 8760, 8784},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "cache_lookups_total",
			Help:      "Parse cache lookups by result (hit, miss).",
		}, []string{"result"}),
		ArchiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "archive_errors_total",
			Help:      "Failed attempts to archive a parsed dataset.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "epw",
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish a parse summary.",
		}),
		ArchiveEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "epw",
			Name:      "archive_enabled",
			Help:      "1 when the Postgres archive is enabled, 0 otherwise.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "epw",
			Name:      "publish_enabled",
			Help:      "1 when Kafka summary publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.FilesParsed,
		m.RowsParsed,
		m.RowsDropped,
		m.ParseDuration,
		m.RowsPerFile,
		m.CacheLookups,
		m.ArchiveErrors,
		m.PublishErrors,
		m.ArchiveEnabled,
		m.PublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesParsed:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "epw", Name: "files_parsed_total"}, []string{"outcome"}),
		RowsParsed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "epw", Name: "rows_parsed_total"}),
		RowsDropped:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "epw", Name: "rows_dropped_total"}, []string{"reason"}),
		ParseDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "epw", Name: "parse_duration_seconds"}),
		RowsPerFile:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "epw", Name: "rows_per_file"}),
		CacheLookups:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "epw", Name: "cache_lookups_total"}, []string{"result"}),
		ArchiveErrors:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "epw", Name: "archive_errors_total"}),
		PublishErrors:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "epw", Name: "publish_errors_total"}),
		ArchiveEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "epw", Name: "archive_enabled"}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "epw", Name: "publish_enabled"}),
	}
}
