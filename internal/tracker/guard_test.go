package tracker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedGuard(t *testing.T) {
	g := NewKeyedGuard()

	release, ok := g.TryAcquire("a")
	require.True(t, ok)
	assert.True(t, g.Held("a"))

	_, ok = g.TryAcquire("a")
	assert.False(t, ok, "second holder is turned away")

	releaseB, ok := g.TryAcquire("b")
	require.True(t, ok, "other keys are independent")
	assert.Equal(t, 2, g.Len())

	release()
	release()
	assert.False(t, g.Held("a"))

	again, ok := g.TryAcquire("a")
	require.True(t, ok)
	again()
	releaseB()
	assert.Equal(t, 0, g.Len())
}

func TestKeyedGuardConcurrent(t *testing.T) {
	g := NewKeyedGuard()
	var winners atomic.Int32
	start := make(chan struct{})
	hold := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if release, ok := g.TryAcquire("k"); ok {
				winners.Add(1)
				<-hold
				release()
			}
		}()
	}

	close(start)
	assert.Eventually(t, func() bool { return g.Held("k") }, time.Second, time.Millisecond)
	close(hold)
	wg.Wait()

	assert.GreaterOrEqual(t, winners.Load(), int32(1))
	assert.False(t, g.Held("k"))
}
