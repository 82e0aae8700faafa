// Package monitoring exposes Prometheus metrics for the preview pipeline:
// boot/install/serve counters, failure counters by stage, phase transition
// counts, and gauges for live processes and WebSocket subscribers.
package monitoring
