package preview

// Phase represents preview lifecycle states
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseBooting    Phase = "booting"
	PhaseInstalling Phase = "installing"
	PhaseStarting   Phase = "starting"
	PhaseReady      Phase = "ready"
	PhaseError      Phase = "error"
)

// inFlight reports whether the phase is inside the non-reentrant stretch of
// the pipeline
func (p Phase) inFlight() bool {
	return p == PhaseBooting || p == PhaseInstalling || p == PhaseStarting
}

// Status is a snapshot of the preview session for UI display
type Status struct {
	Phase      Phase  `json:"phase"`
	PreviewURL string `json:"preview_url,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

// Event notifies the UI of a phase change. ErrorLog carries the transcript
// tail on failures so the UI can offer it to the AI-fix flow.
type Event struct {
	Phase      Phase  `json:"phase"`
	PreviewURL string `json:"preview_url,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorLog   string `json:"error_log,omitempty"`
}

// SyncDecision is what ChangeSync decided to do with a file set
type SyncDecision string

const (
	SyncNoop     SyncDecision = "noop"
	SyncRemount  SyncDecision = "hot-remount"
	SyncFullRun  SyncDecision = "full-run"
	SyncDeferred SyncDecision = "deferred"
)

// Commands configure the processes run inside the sandbox
type Commands struct {
	Install []string // e.g. {"npm", "install"}
	Dev     []string // e.g. {"npm", "run", "dev"}
	Shell   []string // e.g. {"bash"}
}

// DefaultCommands returns the npm toolchain defaults
func DefaultCommands() Commands {
	return Commands{
		Install: []string{"npm", "install", "--no-audit", "--no-fund"},
		Dev:     []string{"npm", "run", "dev"},
		Shell:   []string{"/bin/bash"},
	}
}
