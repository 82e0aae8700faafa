// Package resilience provides the circuit breaker guarding outbound calls
// to the dependency-resolution CDN. A run of failures opens the circuit and
// sheds calls for a cooldown; a single probe then decides whether to close
// it again.
package resilience
