package sandbox

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphpad/previewd/internal/logging"
	"github.com/glyphpad/previewd/internal/manifest"
)

type fakeRuntime struct {
	id int
}

func (r *fakeRuntime) Mount(ctx context.Context, root map[string]manifest.Entry) error { return nil }
func (r *fakeRuntime) Spawn(ctx context.Context, spec SpawnSpec) (Process, error) {
	return nil, errors.New("not implemented")
}
func (r *fakeRuntime) OnServerReady(fn func(url string)) {}
func (r *fakeRuntime) WorkDir() string                   { return "/fake" }

type fakeBooter struct {
	mu    sync.Mutex
	boots int32
	errs  []error // consumed in order; nil means success
}

func (b *fakeBooter) Boot(ctx context.Context) (Runtime, error) {
	n := atomic.AddInt32(&b.boots, 1)

	b.mu.Lock()
	var err error
	if len(b.errs) > 0 {
		err = b.errs[0]
		b.errs = b.errs[1:]
	}
	b.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &fakeRuntime{id: int(n)}, nil
}

func TestEnsureBootedBootsOnce(t *testing.T) {
	booter := &fakeBooter{}
	m := NewManager(booter, logging.NewNop())

	first, err := m.EnsureBooted(context.Background())
	require.NoError(t, err)
	second, err := m.EnsureBooted(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&booter.boots))
}

func TestEnsureBootedConcurrentCallersShareOneBoot(t *testing.T) {
	booter := &fakeBooter{}
	m := NewManager(booter, logging.NewNop())

	var wg sync.WaitGroup
	results := make([]Runtime, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rt, err := m.EnsureBooted(context.Background())
			require.NoError(t, err)
			results[i] = rt
		}(i)
	}
	wg.Wait()

	for _, rt := range results {
		assert.Same(t, results[0], rt)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&booter.boots))
}

func TestEnsureBootedRetriesAfterFailure(t *testing.T) {
	booter := &fakeBooter{errs: []error{errors.New("boot exploded")}}
	m := NewManager(booter, logging.NewNop())

	_, err := m.EnsureBooted(context.Background())
	require.Error(t, err)

	// The guard resets on failure: the next call boots again instead of
	// replaying the rejected boot forever
	rt, err := m.EnsureBooted(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rt)
	assert.Equal(t, int32(2), atomic.LoadInt32(&booter.boots))
}

func TestEnsureBootedAlreadyRunningWithNoPriorFails(t *testing.T) {
	booter := &fakeBooter{errs: []error{errors.New("sandbox already running")}}
	m := NewManager(booter, logging.NewNop())

	_, err := m.EnsureBooted(context.Background())
	assert.Error(t, err, "already running without a prior instance is a real failure")
}

func TestCurrent(t *testing.T) {
	booter := &fakeBooter{}
	m := NewManager(booter, logging.NewNop())

	_, ok := m.Current()
	assert.False(t, ok)

	booted, err := m.EnsureBooted(context.Background())
	require.NoError(t, err)

	current, ok := m.Current()
	assert.True(t, ok)
	assert.Same(t, booted, current)
}

func TestIsAlreadyRunning(t *testing.T) {
	assert.True(t, isAlreadyRunning(errors.New("instance already running")))
	assert.True(t, isAlreadyRunning(errors.New("runtime already booted")))
	assert.True(t, isAlreadyRunning(errors.New("Only a single instance allowed")))
	assert.False(t, isAlreadyRunning(errors.New("out of memory")))
	assert.False(t, isAlreadyRunning(nil))
}
