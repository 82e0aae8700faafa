package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RunsTotal.Inc()
	m.RecordTransition("booting")
	m.RecordStageFailure("install")
	m.ProcessesLive.Inc()
	m.HotRemounts.Inc()
	m.WSSubscribers.Inc()
	m.InstallDuration.Observe(12.5)
	m.BootDuration.Observe(0.3)

	families, err := reg.Gather()
	require.NoError(t, err)

	got := make(map[string]bool, len(families))
	for _, f := range families {
		got[f.GetName()] = true
	}
	for _, name := range []string{
		"previewd_runs_total",
		"previewd_phase_transitions_total",
		"previewd_stage_failures_total",
		"previewd_install_duration_seconds",
		"previewd_boot_duration_seconds",
		"previewd_processes_live",
		"previewd_hot_remounts_total",
		"previewd_ws_subscribers",
		"previewd_uptime_seconds",
	} {
		assert.True(t, got[name], "metric %s must be registered", name)
	}
}

func TestUptimeReportsAtScrape(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() != "previewd_uptime_seconds" {
			continue
		}
		require.Len(t, f.GetMetric(), 1)
		assert.GreaterOrEqual(t, f.GetMetric()[0].GetGauge().GetValue(), 0.0)
		return
	}
	t.Fatal("previewd_uptime_seconds not gathered")
}

func TestNilMetricsHelpersAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTransition("ready")
		m.RecordStageFailure("serve")
	})
}
