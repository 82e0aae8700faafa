package sandbox

import (
	"context"
	"io"

	"github.com/glyphpad/previewd/internal/manifest"
)

// Process is an opaque handle to a spawned sandbox process
type Process interface {
	// Output is the process's combined stdout/stderr stream. Reads block
	// until data arrives and fail once the process exits.
	Output() io.Reader

	// Write sends input to the process's terminal
	Write(p []byte) (int, error)

	// Resize changes the process's terminal dimensions
	Resize(cols, rows int) error

	// Kill terminates the process. Killing an exited process is a no-op.
	Kill() error

	// Exit yields the process's exit code exactly once, then stays closed
	Exit() <-chan int
}

// SpawnSpec describes a process to launch inside the sandbox
type SpawnSpec struct {
	Command string
	Args    []string
	Env     map[string]string
	Cols    int
	Rows    int

	// WatchServerReady routes this process's output through the dev-server
	// URL detector, firing registered server-ready hooks.
	WatchServerReady bool
}

// Runtime is a booted sandbox instance
type Runtime interface {
	// Mount idempotently writes a manifest tree into the sandbox
	// filesystem. Used for the initial mount and for hot updates.
	Mount(ctx context.Context, root map[string]manifest.Entry) error

	// Spawn launches a process in the sandbox workspace
	Spawn(ctx context.Context, spec SpawnSpec) (Process, error)

	// OnServerReady registers a one-shot hook fired with the preview URL
	// once a watched dev server binds its port. A hook registered after
	// detection fires immediately; a watched Spawn invalidates the previous
	// server's URL, so hooks must be registered after the Spawn they wait on.
	OnServerReady(fn func(url string))

	// WorkDir is the sandbox workspace root on the host
	WorkDir() string
}

// Booter creates Runtime instances. Split from Manager so tests can inject
// failures and fakes.
type Booter interface {
	Boot(ctx context.Context) (Runtime, error)
}
