package terminal

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// scriptedProcess plays a fixed output stream and records writes
type scriptedProcess struct {
	out io.Reader

	mu      sync.Mutex
	writes  []byte
	resizes [][2]int
	killed  bool

	exit chan int
}

func newScriptedProcess(output string) *scriptedProcess {
	return &scriptedProcess{
		out:  strings.NewReader(output),
		exit: make(chan int, 1),
	}
}

func (p *scriptedProcess) Output() io.Reader { return p.out }

func (p *scriptedProcess) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = append(p.writes, b...)
	return len(b), nil
}

func (p *scriptedProcess) Resize(cols, rows int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resizes = append(p.resizes, [2]int{cols, rows})
	return nil
}

func (p *scriptedProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
	return nil
}

func (p *scriptedProcess) Exit() <-chan int { return p.exit }

func TestPipeToTerminal(t *testing.T) {
	term := New()
	proc := newScriptedProcess("npm WARN deprecated\nadded 42 packages\n")

	PipeToTerminal(proc, term)

	snap := string(term.Snapshot())
	assert.Contains(t, snap, "added 42 packages")
}

// erroringReader fails mid-stream the way a PTY does when its process dies
type erroringReader struct {
	data []byte
	read bool
}

func (r *erroringReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		n := copy(p, r.data)
		return n, nil
	}
	return 0, io.ErrClosedPipe
}

func TestPipeTreatsReadErrorAsStreamEnd(t *testing.T) {
	term := New()
	proc := newScriptedProcess("")
	proc.out = &erroringReader{data: []byte("partial output")}

	// Must return, not panic or loop forever
	done := make(chan struct{})
	go func() {
		PipeToTerminal(proc, term)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pipe did not terminate on read error")
	}
	assert.Contains(t, string(term.Snapshot()), "partial output")
}

func TestAttachInteractiveShell(t *testing.T) {
	term := New()
	proc := newScriptedProcess("")
	pr, pw := io.Pipe()
	proc.out = pr // held open until the test ends the shell

	exited := make(chan struct{})
	input := AttachInteractiveShell(proc, term, func() { close(exited) })

	// Keystrokes and resizes reach the shell while it lives
	input.Write([]byte("ls\n"))
	input.Resize(120, 40)

	pw.Write([]byte("$ "))
	pw.Close() // shell exits: output stream ends

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("shell exit callback never fired")
	}

	proc.mu.Lock()
	writes := string(proc.writes)
	resizes := len(proc.resizes)
	proc.mu.Unlock()
	assert.Contains(t, writes, "ls\n")
	assert.Equal(t, 1, resizes)

	// After exit all wiring is detached: writes become no-ops
	n, err := input.Write([]byte("echo dead\n"))
	assert.NoError(t, err)
	assert.Equal(t, len("echo dead\n"), n)
	assert.NoError(t, input.Resize(80, 24))

	proc.mu.Lock()
	assert.NotContains(t, string(proc.writes), "echo dead")
	proc.mu.Unlock()
}
