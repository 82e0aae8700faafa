package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/glyphpad/previewd/internal/logging"
	"github.com/glyphpad/previewd/internal/manifest"
	"go.uber.org/zap"
)

// urlRe matches the dev server's printed bound address
var urlRe = regexp.MustCompile(`https?://(?:localhost|127\.0\.0\.1|0\.0\.0\.0|\[::1\]|[\w.-]+):\d+/?`)

// LocalBooter boots sandbox runtimes backed by host workspace directories
type LocalBooter struct {
	// BaseDir roots sandbox workspaces; empty means the OS temp dir
	BaseDir string
	Logger  *logging.Logger
}

// Boot creates a fresh workspace directory and returns a runtime over it
func (b *LocalBooter) Boot(ctx context.Context) (Runtime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(b.BaseDir, "previewd-sandbox-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox workspace: %w", err)
	}

	logger := b.Logger
	if logger == nil {
		logger = logging.NewDefault()
	}
	logger.Info("sandbox booted", zap.String("workdir", dir))

	return &LocalRuntime{workDir: dir, logger: logger}, nil
}

// LocalRuntime is a sandbox instance over a host workspace directory
type LocalRuntime struct {
	workDir string
	logger  *logging.Logger

	mu      sync.Mutex
	hooks   []func(url string)
	lastURL string
}

// WorkDir returns the workspace root
func (r *LocalRuntime) WorkDir() string {
	return r.workDir
}

// Mount writes a manifest tree into the workspace. Existing files are
// overwritten in place, so the same call serves initial mounts and hot
// updates alike.
func (r *LocalRuntime) Mount(ctx context.Context, root map[string]manifest.Entry) error {
	for name, entry := range root {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.writeEntry(filepath.Join(r.workDir, name), entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *LocalRuntime) writeEntry(path string, entry manifest.Entry) error {
	if entry.File != nil {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(entry.File.Contents), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}
	if entry.Directory != nil {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		for name, child := range entry.Directory.Entries {
			if err := r.writeEntry(filepath.Join(path, name), child); err != nil {
				return err
			}
		}
	}
	return nil
}

// Spawn launches a PTY-backed process rooted in the workspace
func (r *LocalRuntime) Spawn(ctx context.Context, spec SpawnSpec) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Dir = r.workDir
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "TERM=xterm-256color", "CI=false")
	for key, value := range spec.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	if spec.WatchServerReady {
		r.resetServerReady()
		return startProcess(cmd, spec.Cols, spec.Rows, &urlWatcher{runtime: r})
	}
	return startProcess(cmd, spec.Cols, spec.Rows, nil)
}

// OnServerReady registers a one-shot hook for the dev server's URL.
// A hook registered after the URL is already known fires immediately.
func (r *LocalRuntime) OnServerReady(fn func(url string)) {
	r.mu.Lock()
	url := r.lastURL
	if url == "" {
		r.hooks = append(r.hooks, fn)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	fn(url)
}

// resetServerReady invalidates the previous dev server's address and any
// hooks still waiting on one that never arrived. Hooks for the new server
// must be registered after its spawn, or they would observe the old URL.
func (r *LocalRuntime) resetServerReady() {
	r.mu.Lock()
	r.lastURL = ""
	r.hooks = nil
	r.mu.Unlock()
}

// serverReady fires and clears pending hooks with the detected URL
func (r *LocalRuntime) serverReady(url string) {
	r.mu.Lock()
	if r.lastURL != "" {
		// Subsequent matches from the same server are noise
		r.mu.Unlock()
		return
	}
	r.lastURL = url
	hooks := r.hooks
	r.hooks = nil
	r.mu.Unlock()

	r.logger.Info("dev server ready", zap.String("url", url))
	for _, fn := range hooks {
		fn(url)
	}
}

// urlWatcher scans teed process output for the dev server's bound address
type urlWatcher struct {
	runtime *LocalRuntime
	buf     bytes.Buffer
	done    bool
}

func (w *urlWatcher) Write(p []byte) (int, error) {
	if w.done {
		return len(p), nil
	}
	w.buf.Write(p)
	if match := urlRe.Find(w.buf.Bytes()); match != nil {
		w.done = true
		w.runtime.serverReady(string(match))
		w.buf.Reset()
	} else if w.buf.Len() > 64*1024 {
		// Keep only the tail; a URL will not straddle 64K of output
		tail := w.buf.Bytes()[w.buf.Len()-1024:]
		remaining := make([]byte, len(tail))
		copy(remaining, tail)
		w.buf.Reset()
		w.buf.Write(remaining)
	}
	return len(p), nil
}
