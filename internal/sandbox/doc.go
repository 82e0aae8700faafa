// Package sandbox drives the isolated execution environment that builds and
// runs the previewed project.
//
// The sandbox is a process-wide singleton: booted lazily on first use behind
// a single in-flight guard, shared by every preview panel, and never
// explicitly torn down. Boot failures reset the guard so a later attempt can
// retry instead of hanging on a rejected boot forever; an "already running"
// boot error with a live prior instance is treated as success, which
// tolerates double-invoke and hot-reload situations.
//
// A booted Runtime offers three things: idempotent manifest mounts into its
// filesystem, PTY-backed process spawning, and a one-shot-per-registration
// server-ready hook that fires with the externally reachable URL once the
// dev server binds its port. URL detection watches dev-server output rather
// than polling ports, since vite prints its bound address as soon as it is
// actually serving.
package sandbox
