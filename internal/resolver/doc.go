// Package resolver resolves npm package names to pinned versions against a
// jsdelivr-style CDN API.
//
// This is the one code path with a hard timeout: resolution is an
// opportunistic enhancement (pin exact versions in the synthesized
// manifest instead of "latest"), so a slow CDN must never stall a mount.
// Timeouts are rethrown as descriptive errors, not converted to terminal
// output like the rest of the pipeline, because the caller decides whether
// to fall back to "latest" or surface the failure.
//
// Transport stacking follows the backend's outbound HTTP convention:
// resty over a retryable transport, a client-side rate limiter, and a
// circuit breaker so a misbehaving CDN gets shed instead of hammered.
package resolver
