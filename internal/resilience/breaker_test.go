package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	b := NewBreaker("test", 3, time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, b.Do(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker("test", 3, time.Minute)

	for i := 0; i < 3; i++ {
		err := b.Do(func() error { return errUpstream })
		assert.ErrorIs(t, err, errUpstream)
	}
	assert.Equal(t, StateOpen, b.State())

	// Open circuit sheds without calling fn
	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker("test", 3, time.Minute)

	require.Error(t, b.Do(func() error { return errUpstream }))
	require.Error(t, b.Do(func() error { return errUpstream }))
	require.NoError(t, b.Do(func() error { return nil }))
	require.Error(t, b.Do(func() error { return errUpstream }))
	require.Error(t, b.Do(func() error { return errUpstream }))

	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := NewBreaker("test", 1, 10*time.Millisecond)

	require.Error(t, b.Do(func() error { return errUpstream }))
	require.Equal(t, StateOpen, b.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, b.State())

	// A failed probe re-opens immediately
	require.ErrorIs(t, b.Do(func() error { return errUpstream }), errUpstream)
	assert.Equal(t, StateOpen, b.State())

	// A successful probe closes
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerDefaults(t *testing.T) {
	b := NewBreaker("test", 0, 0)
	assert.Equal(t, "test", b.Name())
	assert.Equal(t, 5, b.maxFailures)
	assert.Equal(t, 30*time.Second, b.cooldown)
}
