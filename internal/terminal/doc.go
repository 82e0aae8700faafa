// Package terminal provides the shared terminal view that every preview
// stream writes into, and the bridge wiring sandbox processes to it.
//
// The terminal is an append-only sink: multiple pipes (install output, dev
// server output, shell output, orchestrator status lines) write
// concurrently, and no write ever reads previous content back, so ordering
// beyond each pipe's own is unconstrained and no coordination is needed.
// A bounded circular replay buffer lets late subscribers (a reconnecting
// WebSocket) catch up on recent transcript.
//
// The bridge side runs one pull-based read loop per piped process, each
// terminating when its stream ends; read failures are treated as
// stream-closed, never as fatal errors. Interactive shells get three wires
// (keystrokes in, resize in, output out) that are disposed together on
// shell exit so nothing writes into a dead process.
package terminal
