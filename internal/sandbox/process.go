package sandbox

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// ptyProcess wraps an exec.Cmd attached to a pseudo-terminal
type ptyProcess struct {
	cmd  *exec.Cmd
	ptmx *os.File
	out  io.Reader

	exit     chan int
	exitOnce sync.Once

	mu     sync.Mutex
	closed bool
}

// startProcess launches cmd under a PTY and begins monitoring its exit
func startProcess(cmd *exec.Cmd, cols, rows int, tee io.Writer) (*ptyProcess, error) {
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	p := &ptyProcess{
		cmd:  cmd,
		ptmx: ptmx,
		out:  io.Reader(ptmx),
		exit: make(chan int, 1),
	}
	if tee != nil {
		p.out = io.TeeReader(ptmx, tee)
	}

	go p.monitor()
	return p, nil
}

// monitor waits for process exit, records the code, and closes the PTY
func (p *ptyProcess) monitor() {
	err := p.cmd.Wait()

	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		code = -1
	}

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.ptmx.Close()

	p.exitOnce.Do(func() {
		p.exit <- code
		close(p.exit)
	})
}

func (p *ptyProcess) Output() io.Reader {
	return p.out
}

func (p *ptyProcess) Write(b []byte) (int, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return 0, fmt.Errorf("process has exited")
	}
	return p.ptmx.Write(b)
}

func (p *ptyProcess) Resize(cols, rows int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("process has exited")
	}
	return pty.Setsize(p.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

func (p *ptyProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil // already gone
	}
	if p.cmd.Process != nil {
		return p.cmd.Process.Kill()
	}
	return nil
}

func (p *ptyProcess) Exit() <-chan int {
	return p.exit
}
