package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllowsUpToLimit(t *testing.T) {
	l := New(3, time.Minute)

	assert.True(t, l.Allow("cam-1"))
	assert.True(t, l.Allow("cam-1"))
	assert.True(t, l.Allow("cam-1"))
	assert.False(t, l.Allow("cam-1"))
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	assert.True(t, l.Allow("cam-1"))
	assert.False(t, l.Allow("cam-1"))
	assert.True(t, l.Allow("cam-2"))
}

func TestLimiterWindowSlides(t *testing.T) {
	l := New(1, 10*time.Millisecond)

	assert.True(t, l.Allow("cam-1"))
	assert.False(t, l.Allow("cam-1"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, l.Allow("cam-1"))
}

func TestLimiterSweepsIdleDevices(t *testing.T) {
	l := New(5, 20*time.Millisecond)

	assert.True(t, l.Allow("cam-idle"))
	time.Sleep(50 * time.Millisecond)
	assert.True(t, l.Allow("cam-live"))

	l.mu.Lock()
	_, idle := l.buckets["cam-idle"]
	_, live := l.buckets["cam-live"]
	l.mu.Unlock()
	assert.False(t, idle, "idle device should be swept once its window passed")
	assert.True(t, live)
}

func TestLimiterZeroLimitDisables(t *testing.T) {
	l := New(0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("cam-1"))
	}
}
