package preview

import (
	"context"
	"fmt"

	"github.com/glyphpad/previewd/internal/fileset"
	"github.com/glyphpad/previewd/internal/manifest"
	"go.uber.org/zap"
)

// Sync reacts to a file-tree push from the editor and decides what the
// change costs: nothing, a hot remount, or a full boot sequence.
//
//   - unchanged fingerprint:     no-op
//   - ready:                     remount only; the dev server's own watcher
//     picks up the new files, the preview never leaves ready
//   - idle or error:             full boot sequence, run asynchronously
//   - booting/installing/starting: deferred; the in-flight guard refuses
//     re-entry and the next diff after completion is handled normally
func (o *Orchestrator) Sync(ctx context.Context, nodes []fileset.Node) SyncDecision {
	fp := fileset.Fingerprint(nodes)

	o.mu.Lock()
	phase := o.phase
	running := o.running
	unchanged := fp == o.fingerprint && o.fingerprint != ""
	o.mu.Unlock()

	if unchanged {
		return SyncNoop
	}
	if running || phase.inFlight() {
		o.logger.Debug("file change deferred mid-run", zap.String("phase", string(phase)))
		return SyncDeferred
	}

	if phase == PhaseReady {
		o.hotRemount(ctx, nodes, fp)
		return SyncRemount
	}

	if len(nodes) == 0 {
		// An empty tree never triggers a first boot
		return SyncNoop
	}

	// idle or error: full sequence, detached from the caller's request
	go o.Run(context.WithoutCancel(ctx), nodes)
	return SyncFullRun
}

// hotRemount writes updated files into the running sandbox without
// reinstalling or restarting. A remount failure is reported inline and does
// not change the overall state: the last good preview keeps running.
func (o *Orchestrator) hotRemount(ctx context.Context, nodes []fileset.Node, fp string) {
	rt, ok := o.sandboxes.Current()
	if !ok {
		// Ready without a sandbox cannot happen in practice; treat as stale
		o.logger.Warn("hot remount with no sandbox; ignoring")
		return
	}

	builder := &manifest.Builder{}
	tree := builder.Build(nodes)

	if err := rt.Mount(ctx, tree.Root); err != nil {
		msg := fmt.Sprintf("hot update failed: %v", err)
		o.term.Failure("%s", msg)
		o.logger.Warn("hot remount failed", zap.Error(err))
		o.emit(Event{Phase: PhaseReady, PreviewURL: o.Status().PreviewURL, Error: msg})
		return
	}

	o.mu.Lock()
	o.fingerprint = fp
	o.mu.Unlock()

	if o.metrics != nil {
		o.metrics.HotRemounts.Inc()
	}
	o.term.Status("files synced; dev server will reload")
}
