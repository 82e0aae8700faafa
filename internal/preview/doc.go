// Package preview sequences the boot, install, and serve pipeline that
// turns the editor's file tree into a live dev-server preview.
//
// The orchestrator is a small state machine: idle, booting, installing,
// starting, ready, with error reachable from the three middle phases. An
// in-flight guard makes orchestration non-reentrant per panel; file changes
// arriving mid-run are deferred and picked up by the next diff. In ready,
// changes become hot remounts: files are rewritten in place and the dev
// server's own file watcher does the refresh, so the preview never leaves
// ready.
//
// Failures degrade, never crash: an install exiting non-zero or a dev
// server dying pre-ready reports to the terminal, lands in error, and drops
// the user into an interactive fallback shell inside the sandbox so their
// context survives. The terminal transcript is the primary progress UI;
// every transition writes a human-readable line to it.
package preview
