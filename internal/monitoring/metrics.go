package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Pipeline metrics
	RunsTotal       prometheus.Counter
	Transitions     *prometheus.CounterVec
	StageFailures   *prometheus.CounterVec
	InstallDuration prometheus.Histogram
	BootDuration    prometheus.Histogram

	// Resource metrics
	ProcessesLive prometheus.Gauge
	HotRemounts   prometheus.Counter

	// Transport metrics
	WSSubscribers prometheus.Gauge

	// System metrics
	Uptime prometheus.GaugeFunc
}

// New creates and registers all metrics with the given registry.
// Pass nil to use the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	start := time.Now()

	return &Metrics{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "previewd_runs_total",
			Help: "Total preview boot sequences started",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "previewd_phase_transitions_total",
			Help: "Phase transitions by target phase",
		}, []string{"phase"}),
		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "previewd_stage_failures_total",
			Help: "Failures by pipeline stage",
		}, []string{"stage"}),
		InstallDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "previewd_install_duration_seconds",
			Help:    "Dependency install duration",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		BootDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "previewd_boot_duration_seconds",
			Help:    "Sandbox boot duration",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		ProcessesLive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "previewd_processes_live",
			Help: "Sandbox processes currently running",
		}),
		HotRemounts: factory.NewCounter(prometheus.CounterOpts{
			Name: "previewd_hot_remounts_total",
			Help: "Hot remounts applied to a ready preview",
		}),
		WSSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "previewd_ws_subscribers",
			Help: "Active WebSocket terminal subscribers",
		}),
		// Computed at scrape time, so it is never stale and needs no ticker
		Uptime: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "previewd_uptime_seconds",
			Help: "Process uptime in seconds",
		}, func() float64 {
			return time.Since(start).Seconds()
		}),
	}
}

// RecordTransition counts a phase transition
func (m *Metrics) RecordTransition(phase string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(phase).Inc()
}

// RecordStageFailure counts a failure at a pipeline stage
func (m *Metrics) RecordStageFailure(stage string) {
	if m == nil {
		return
	}
	m.StageFailures.WithLabelValues(stage).Inc()
}
