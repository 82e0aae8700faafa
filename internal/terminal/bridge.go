package terminal

import (
	"sync"

	"github.com/glyphpad/previewd/internal/sandbox"
)

// PipeToTerminal copies a process's output stream into the terminal until
// the stream ends. Read failures mean the stream is closed (the PTY goes
// away when the process exits), never a fatal condition, so the loop's sole
// termination predicate is "the stream yielded an error or EOF."
func PipeToTerminal(proc sandbox.Process, t *Terminal) {
	buf := make([]byte, 4096)
	out := proc.Output()
	for {
		n, err := out.Read(buf)
		if n > 0 {
			t.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// ShellInput is the subscriber-facing control surface of an attached shell
type ShellInput struct {
	mu       sync.Mutex
	proc     sandbox.Process
	detached bool
}

// Write forwards keystrokes to the shell. After shell exit this is a no-op.
func (s *ShellInput) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return len(p), nil
	}
	return s.proc.Write(p)
}

// Resize forwards terminal dimension changes to the shell
func (s *ShellInput) Resize(cols, rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return nil
	}
	return s.proc.Resize(cols, rows)
}

func (s *ShellInput) detach() {
	s.mu.Lock()
	s.detached = true
	s.mu.Unlock()
}

// AttachInteractiveShell wires a shell process to the terminal in both
// directions: output flows into the terminal, and the returned ShellInput
// carries keystrokes and resizes back. All wiring is torn down together
// when the shell exits, so nothing writes to a dead process.
func AttachInteractiveShell(proc sandbox.Process, t *Terminal, onExit func()) *ShellInput {
	input := &ShellInput{proc: proc}

	go func() {
		PipeToTerminal(proc, t)
		// Output ended: the shell is gone. Detach input before signaling.
		input.detach()
		if onExit != nil {
			onExit()
		}
	}()

	return input
}
