package resource

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilController(t *testing.T) {
	var c *Controller
	ctx := context.Background()

	require.NoError(t, c.AcquireRead(ctx))
	c.ReleaseRead()
	require.NoError(t, c.AcquireIO(ctx, 1<<20))
	require.NoError(t, c.AcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Equal(t, int64(0), c.MemoryUsage())

	reads, bytes := c.Stats()
	assert.Zero(t, reads)
	assert.Zero(t, bytes)
}

func TestReadSlots(t *testing.T) {
	c := NewController(Config{MaxConcurrentReads: 2})
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		inFlight atomic.Int64
		peak     atomic.Int64
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !assert.NoError(t, c.AcquireRead(ctx)) {
				return
			}
			defer c.ReleaseRead()

			cur := inFlight.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2))
	reads, _ := c.Stats()
	assert.Equal(t, int64(8), reads)
}

func TestAcquireReadCanceled(t *testing.T) {
	c := NewController(Config{MaxConcurrentReads: 1})
	require.NoError(t, c.AcquireRead(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.AcquireRead(ctx), context.Canceled)
}

func TestAcquireIOLargerThanBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, c.AcquireIO(ctx, (1<<20)+10))
	_, bytes := c.Stats()
	assert.Equal(t, int64((1<<20)+10), bytes)
}

func TestMemoryLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(60))
	assert.ErrorIs(t, c.AcquireMemory(50), ErrMemoryLimitExceeded)
	assert.Equal(t, int64(60), c.MemoryUsage())

	c.ReleaseMemory(60)
	require.NoError(t, c.AcquireMemory(100))
	assert.Equal(t, int64(100), c.MemoryUsage())
}
