// Command previewd runs the preview orchestration service for the editor.
//
// It exposes the HTTP/WebSocket surface the editor UI consumes: file-tree
// pushes, preview status, restart, the live terminal stream, and metrics.
//
// Usage:
//
//	previewd [-port 8800] [-host 0.0.0.0]
//
// Configuration comes from environment variables (see internal/config);
// flags override the listen address for development convenience.
package main
