package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	Loads            prometheus.Counter
	LoadFailures     prometheus.Counter
	SamplesEmitted   prometheus.Counter
	SamplesDropped   *prometheus.CounterVec // labels: reason={missing,unparseable,ambiguous,invalid_score}
	SamplesPublished prometheus.Counter
	PublishFailures  prometheus.Counter
	DatasetSamples   prometheus.Gauge
	DatasetPeople    prometheus.Gauge
	PipelineRunning  prometheus.Gauge

	RefreshDuration prometheus.Histogram

	// Heat-map cache lookups.
	HeatmapCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Loads,
		m.LoadFailures,
		m.SamplesEmitted,
		m.SamplesDropped,
		m.SamplesPublished,
		m.PublishFailures,
		m.DatasetSamples,
		m.DatasetPeople,
		m.PipelineRunning,
		m.RefreshDuration,
		m.HeatmapCache,
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
		Loads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tracking",
			Name:      "loads_total",
			Help:      "Successful source table loads.",
		}),
		LoadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tracking",
			Name:      "load_failures_total",
			Help:      "Source table loads that failed to read or reshape.",
		}),
		SamplesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tracking",
			Name:      "samples_emitted_total",
			Help:      "Location samples produced by reshaping.",
		}),
		SamplesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracking",
			Name:      "samples_dropped_total",
			Help:      "Person-day candidates dropped during reshaping, by reason.",
		}, []string{"reason"}),
		SamplesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tracking",
			Name:      "samples_published_total",
			Help:      "Location samples written to the sink topic.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tracking",
			Name:      "publish_failures_total",
			Help:      "Sample batches that failed to publish.",
		}),
		DatasetSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tracking",
			Name:      "dataset_samples",
			Help:      "Location samples in the current snapshot.",
		}),
		DatasetPeople: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tracking",
			Name:      "dataset_people",
			Help:      "Person rows in the current snapshot.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tracking",
			Name:      "pipeline_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tracking",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete load-reshape-publish refresh.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		HeatmapCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracking",
			Name:      "heatmap_cache_total",
			Help:      "Heat-map grid cache lookups by result.",
		}, []string{"result"}),
	}
}
