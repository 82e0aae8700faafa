package sandbox

import (
	"context"
	"strings"
	"sync"

	"github.com/glyphpad/previewd/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Manager owns the process-wide sandbox singleton.
//
// Concurrent EnsureBooted callers share one in-flight boot; a failed boot
// leaves no cached result, so the next caller retries instead of receiving
// the stale failure forever.
type Manager struct {
	booter Booter
	logger *logging.Logger

	group singleflight.Group

	mu       sync.RWMutex
	instance Runtime
}

// NewManager creates a manager over the given booter
func NewManager(booter Booter, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Manager{booter: booter, logger: logger}
}

// EnsureBooted returns the shared sandbox, booting it on first use.
//
// An "already running" boot failure with a live prior instance is treated
// as success and returns that instance; this tolerates double-invoke and
// hot-reload situations where the host re-enters orchestration.
func (m *Manager) EnsureBooted(ctx context.Context) (Runtime, error) {
	m.mu.RLock()
	instance := m.instance
	m.mu.RUnlock()
	if instance != nil {
		return instance, nil
	}

	result, err, _ := m.group.Do("boot", func() (interface{}, error) {
		// Re-check under the flight: a previous flight may have finished
		// between the caller's read and joining this one.
		m.mu.RLock()
		existing := m.instance
		m.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		rt, err := m.booter.Boot(ctx)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.instance = rt
		m.mu.Unlock()
		return rt, nil
	})

	if err != nil {
		m.mu.RLock()
		prior := m.instance
		m.mu.RUnlock()
		if prior != nil && isAlreadyRunning(err) {
			m.logger.Warn("sandbox reported already running; reusing prior instance", zap.Error(err))
			return prior, nil
		}
		// singleflight holds no state across calls, so the guard is
		// naturally reset: the next EnsureBooted starts a fresh boot
		return nil, err
	}

	return result.(Runtime), nil
}

// Current returns the booted runtime without triggering a boot
func (m *Manager) Current() (Runtime, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instance, m.instance != nil
}

// isAlreadyRunning classifies boot errors caused by a concurrently live
// sandbox rather than a real failure
func isAlreadyRunning(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already running") ||
		strings.Contains(msg, "already booted") ||
		strings.Contains(msg, "only a single")
}
