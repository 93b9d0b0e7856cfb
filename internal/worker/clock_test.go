package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingTicker struct {
	ticks atomic.Int32
}

func (c *countingTicker) Tick(context.Context) {
	c.ticks.Add(1)
}

func TestClock_TicksUntilStopped(t *testing.T) {
	ticker := &countingTicker{}
	clock := NewClock(ticker, 10*time.Millisecond, zap.NewNop())

	clock.Start(context.Background())
	assert.Eventually(t, func() bool { return ticker.ticks.Load() >= 3 }, time.Second, 5*time.Millisecond)

	clock.Stop()
	stopped := ticker.ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, ticker.ticks.Load())
}

func TestClock_StopsOnContextCancel(t *testing.T) {
	ticker := &countingTicker{}
	clock := NewClock(ticker, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	clock.Start(ctx)
	assert.Eventually(t, func() bool { return ticker.ticks.Load() >= 1 }, time.Second, 5*time.Millisecond)

	cancel()
	clock.Stop()
}

func TestClock_StartTwiceAndStopIdempotent(t *testing.T) {
	ticker := &countingTicker{}
	clock := NewClock(ticker, 0, zap.NewNop())
	assert.Equal(t, time.Second, clock.interval)

	clock.Start(context.Background())
	clock.Start(context.Background())
	clock.Stop()
	clock.Stop()
}
