// Package server wires the HTTP surface the editor UI talks to: file-tree
// pushes, preview status, restart, the WebSocket terminal stream, and
// Prometheus metrics.
package server
