package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEleventhRequestRejected(t *testing.T) {
	w := NewFixedWindow(10, time.Minute)
	for i := 0; i < 10; i++ {
		require.Truef(t, w.Allow("user-1"), "request %d should pass", i+1)
	}
	assert.False(t, w.Allow("user-1"), "11th request inside the window must be rejected")
}

func TestWindowRollover(t *testing.T) {
	w := NewFixedWindow(10, time.Minute)
	base := time.Now()
	w.now = func() time.Time { return base }

	for i := 0; i < 10; i++ {
		require.True(t, w.Allow("user-1"))
	}
	require.False(t, w.Allow("user-1"))

	w.now = func() time.Time { return base.Add(60 * time.Second) }
	assert.True(t, w.Allow("user-1"), "first request after rollover must succeed")
}

func TestKeysAreIndependent(t *testing.T) {
	w := NewFixedWindow(1, time.Minute)
	require.True(t, w.Allow("a"))
	require.False(t, w.Allow("a"))
	assert.True(t, w.Allow("b"))
}

func TestExpiredCountersAreSwept(t *testing.T) {
	w := NewFixedWindow(10, time.Minute)
	base := time.Now()
	w.now = func() time.Time { return base }
	w.Allow("a")
	w.Allow("b")

	w.now = func() time.Time { return base.Add(2 * time.Minute) }
	w.Allow("c")

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Len(t, w.counters, 1)
}
