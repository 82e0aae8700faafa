package preview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glyphpad/previewd/internal/fileset"
	"github.com/glyphpad/previewd/internal/logging"
	"github.com/glyphpad/previewd/internal/manifest"
	"github.com/glyphpad/previewd/internal/monitoring"
	"github.com/glyphpad/previewd/internal/resolver"
	"github.com/glyphpad/previewd/internal/sandbox"
	"github.com/glyphpad/previewd/internal/terminal"
	"go.uber.org/zap"
)

// errorLogTail bounds how much transcript an error event carries upward
const errorLogTail = 4 * 1024

// Orchestrator owns one preview panel's lifecycle
type Orchestrator struct {
	sandboxes *sandbox.Manager
	term      *terminal.Terminal
	commands  Commands
	resolver  *resolver.Client // optional version pinning
	logger    *logging.Logger
	metrics   *monitoring.Metrics

	mu          sync.Mutex
	phase       Phase
	lastError   string
	previewURL  string
	fingerprint string
	devServer   sandbox.Process
	shell       sandbox.Process
	shellInput  *terminal.ShellInput
	running     bool // in-flight guard, held across booting/installing/starting

	eventMu sync.RWMutex
	onEvent func(Event)
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithResolver enables CDN version pinning for inferred dependencies
func WithResolver(r *resolver.Client) Option {
	return func(o *Orchestrator) { o.resolver = r }
}

// WithMetrics enables pipeline metrics
func WithMetrics(m *monitoring.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithCommands overrides the sandbox toolchain commands
func WithCommands(c Commands) Option {
	return func(o *Orchestrator) { o.commands = c }
}

// NewOrchestrator creates an idle orchestrator over the shared sandbox
func NewOrchestrator(sandboxes *sandbox.Manager, term *terminal.Terminal, logger *logging.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewDefault()
	}
	o := &Orchestrator{
		sandboxes: sandboxes,
		term:      term,
		commands:  DefaultCommands(),
		logger:    logger,
		phase:     PhaseIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Terminal returns the panel's shared terminal sink
func (o *Orchestrator) Terminal() *terminal.Terminal {
	return o.term
}

// OnEvent registers the UI notification callback. Replaces any previous one.
func (o *Orchestrator) OnEvent(fn func(Event)) {
	o.eventMu.Lock()
	o.onEvent = fn
	o.eventMu.Unlock()
}

// Status returns a snapshot of the session
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{Phase: o.phase, PreviewURL: o.previewURL, LastError: o.lastError}
}

// ShellInput returns the control surface of the current interactive shell,
// if one is attached
func (o *Orchestrator) ShellInput() (*terminal.ShellInput, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.shellInput, o.shellInput != nil
}

// transition moves to a new phase, reporting to terminal, metrics, and the
// UI event callback
func (o *Orchestrator) transition(phase Phase, errMsg string) {
	o.mu.Lock()
	o.phase = phase
	o.lastError = errMsg
	url := o.previewURL
	o.mu.Unlock()

	o.metrics.RecordTransition(string(phase))
	o.logger.Info("preview phase", zap.String("phase", string(phase)))

	event := Event{Phase: phase, PreviewURL: url, Error: errMsg}
	if phase == PhaseError {
		event.ErrorLog = o.transcriptTail()
	}
	o.emit(event)
}

func (o *Orchestrator) emit(event Event) {
	o.eventMu.RLock()
	fn := o.onEvent
	o.eventMu.RUnlock()
	if fn != nil {
		fn(event)
	}
}

func (o *Orchestrator) transcriptTail() string {
	snap := o.term.Snapshot()
	if len(snap) > errorLogTail {
		snap = snap[len(snap)-errorLogTail:]
	}
	return string(snap)
}

// Run executes the full boot sequence for the given file set. Blocks until
// ready or error; callers that must not block run it on a goroutine.
// A run already in flight makes this a no-op.
func (o *Orchestrator) Run(ctx context.Context, nodes []fileset.Node) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return
	}
	o.running = true
	o.fingerprint = fileset.Fingerprint(nodes)
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	if o.metrics != nil {
		o.metrics.RunsTotal.Inc()
	}

	// booting: sandbox singleton + mount
	o.transition(PhaseBooting, "")
	o.term.Status("booting sandbox...")

	bootStart := time.Now()
	rt, err := o.sandboxes.EnsureBooted(ctx)
	if err != nil {
		o.failStage(ctx, "boot", fmt.Sprintf("sandbox boot failed: %v", err))
		return
	}
	if o.metrics != nil {
		o.metrics.BootDuration.Observe(time.Since(bootStart).Seconds())
	}

	tree := o.buildTree(ctx, nodes)
	o.term.Status("mounting project (%d top-level entries, preset %s)", len(tree.Root), tree.Preset)
	if err := rt.Mount(ctx, tree.Root); err != nil {
		o.failStage(ctx, "mount", fmt.Sprintf("project mount failed: %v", err))
		return
	}

	// installing
	o.transition(PhaseInstalling, "")
	o.term.Status("installing dependencies: %s", joinCommand(o.commands.Install))

	installStart := time.Now()
	install, err := rt.Spawn(ctx, sandbox.SpawnSpec{
		Command: o.commands.Install[0],
		Args:    o.commands.Install[1:],
	})
	if err != nil {
		o.failStage(ctx, "install", fmt.Sprintf("failed to start install: %v", err))
		return
	}

	o.trackProcess(func() { terminal.PipeToTerminal(install, o.term) })
	code := <-install.Exit()
	if o.metrics != nil {
		o.metrics.InstallDuration.Observe(time.Since(installStart).Seconds())
	}
	if code != 0 {
		o.term.Failure("install exited with code %d", code)
		o.failStage(ctx, "install", fmt.Sprintf("install exited with code %d", code))
		return
	}
	o.term.Success("dependencies installed")

	// starting: dev server + wait for bound URL
	o.transition(PhaseStarting, "")
	o.term.Status("starting dev server: %s", joinCommand(o.commands.Dev))

	dev, err := rt.Spawn(ctx, sandbox.SpawnSpec{
		Command:          o.commands.Dev[0],
		Args:             o.commands.Dev[1:],
		WatchServerReady: true,
	})
	if err != nil {
		o.failStage(ctx, "serve", fmt.Sprintf("failed to start dev server: %v", err))
		return
	}

	// Registered after the spawn: the watched spawn invalidates any address
	// left over from a previous dev server, so a hook registered here can
	// only observe the new server's URL.
	readyCh := make(chan string, 1)
	rt.OnServerReady(func(url string) {
		select {
		case readyCh <- url:
		default:
		}
	})

	o.mu.Lock()
	o.devServer = dev
	o.mu.Unlock()

	o.trackProcess(func() { terminal.PipeToTerminal(dev, o.term) })

	select {
	case url := <-readyCh:
		o.mu.Lock()
		o.previewURL = url
		o.mu.Unlock()
		o.term.Success("preview ready at %s", url)
		o.transition(PhaseReady, "")
	case code := <-dev.Exit():
		o.term.Failure("dev server exited with code %d before becoming ready", code)
		o.failStage(ctx, "serve", fmt.Sprintf("dev server crashed with code %d", code))
	case <-ctx.Done():
		o.failStage(ctx, "serve", "orchestration canceled")
	}
}

// buildTree runs the manifest builder, pinning versions through the CDN
// resolver when one is configured
func (o *Orchestrator) buildTree(ctx context.Context, nodes []fileset.Node) *manifest.Tree {
	builder := &manifest.Builder{}
	if o.resolver != nil {
		// Pre-scan to learn what needs pinning; failures fall back to "latest"
		probe := (&manifest.Builder{}).Build(nodes)
		builder.PinnedVersions = o.resolver.ResolveAll(ctx, probe.Inferred)
	}
	return builder.Build(nodes)
}

// failStage reports a stage failure, transitions to error, and drops the
// user into a fallback shell when a sandbox reference exists
func (o *Orchestrator) failStage(ctx context.Context, stage, msg string) {
	o.metrics.RecordStageFailure(stage)
	o.logger.Warn("preview stage failed", zap.String("stage", stage), zap.String("error", msg))
	o.term.Failure("%s", msg)
	o.transition(PhaseError, msg)
	o.spawnFallbackShell(ctx)
}

// spawnFallbackShell attaches an interactive shell so the user keeps a
// working environment after a failure. Best-effort: without a booted
// sandbox there is nothing to attach.
func (o *Orchestrator) spawnFallbackShell(ctx context.Context) {
	rt, ok := o.sandboxes.Current()
	if !ok {
		return
	}

	o.killShell()

	shell, err := rt.Spawn(ctx, sandbox.SpawnSpec{
		Command: o.commands.Shell[0],
		Args:    o.commands.Shell[1:],
	})
	if err != nil {
		o.logger.Warn("fallback shell failed to start", zap.Error(err))
		return
	}

	o.term.Warn("dropping into an interactive shell")
	input := terminal.AttachInteractiveShell(shell, o.term, func() {
		o.logger.Debug("fallback shell exited")
	})

	o.mu.Lock()
	o.shell = shell
	o.shellInput = input
	o.mu.Unlock()
}

// Restart kills the current processes best-effort, clears session state,
// and re-runs the boot sequence with the given file set.
func (o *Orchestrator) Restart(ctx context.Context, nodes []fileset.Node) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return
	}
	dev := o.devServer
	o.devServer = nil
	o.previewURL = ""
	o.fingerprint = ""
	o.phase = PhaseIdle
	o.mu.Unlock()

	o.killProcess(dev, "dev server")
	o.killShell()

	o.term.Status("restarting preview")
	o.transition(PhaseIdle, "")
	o.Run(ctx, nodes)
}

// killShell tears down the current fallback shell, if any. Kill failures
// are logged and swallowed: cancellation is best-effort.
func (o *Orchestrator) killShell() {
	o.mu.Lock()
	shell := o.shell
	o.shell = nil
	o.shellInput = nil
	o.mu.Unlock()

	o.killProcess(shell, "shell")
}

func (o *Orchestrator) killProcess(proc sandbox.Process, role string) {
	if proc == nil {
		return
	}
	if err := proc.Kill(); err != nil {
		o.logger.Debug("failed to kill process", zap.String("role", role), zap.Error(err))
	}
}

// trackProcess runs a pipe loop on its own goroutine, keeping the live
// process gauge honest
func (o *Orchestrator) trackProcess(pipe func()) {
	if o.metrics != nil {
		o.metrics.ProcessesLive.Inc()
	}
	go func() {
		defer func() {
			if o.metrics != nil {
				o.metrics.ProcessesLive.Dec()
			}
		}()
		pipe()
	}()
}

func joinCommand(cmd []string) string {
	return strings.Join(cmd, " ")
}
