package scaling

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockingTarget(count *atomic.Int32) Target {
	return func(ctx context.Context, _ int) {
		count.Add(1)
		defer count.Add(-1)
		<-ctx.Done()
	}
}

func TestScalableGroupStartLaunchesMin(t *testing.T) {
	var live atomic.Int32
	g := NewScalableGroup(3, 5, blockingTarget(&live))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, g.ProcessCount())
	assert.EqualValues(t, 3, live.Load())
}

func TestScalableGroupStopWaitsForExit(t *testing.T) {
	var live atomic.Int32
	g := NewScalableGroup(2, 2, blockingTarget(&live))
	ctx := context.Background()
	g.Start(ctx)
	time.Sleep(10 * time.Millisecond)

	g.Stop()
	assert.EqualValues(t, 0, live.Load())
	assert.Equal(t, 0, g.ProcessCount())
}

func TestScalableGroupAutoscaleBeforeStartFails(t *testing.T) {
	var live atomic.Int32
	g := NewScalableGroup(1, 1, blockingTarget(&live))
	err := g.Autoscale()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestScalableGroupAutoscaleReplacesDeadWorkers(t *testing.T) {
	var live atomic.Int32
	exitOnce := make(chan struct{}, 1)
	target := func(ctx context.Context, id int) {
		live.Add(1)
		defer live.Add(-1)
		if id == 0 {
			exitOnce <- struct{}{}
			return
		}
		<-ctx.Done()
	}
	g := NewScalableGroup(2, 2, target)
	g.Start(context.Background())
	defer g.Stop()

	<-exitOnce
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, g.Autoscale())
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 2, g.ProcessCount())
}

func TestScalableGroupRefreshRecyclesWorkers(t *testing.T) {
	var live atomic.Int32
	g := NewScalableGroup(2, 2, blockingTarget(&live))
	g.Start(context.Background())
	defer g.Stop()
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, g.Refresh())
	assert.Equal(t, 2, g.ProcessCount())
	assert.EqualValues(t, 2, live.Load())
}

type fakeSizer struct{ n atomic.Int64 }

func (f *fakeSizer) Size() int   { return int(f.n.Load()) }
func (f *fakeSizer) set(v int64) { f.n.Store(v) }

func TestLoadBalancerGrowsWhenQueueOverThreshold(t *testing.T) {
	var live atomic.Int32
	q := &fakeSizer{}
	lb := NewLoadBalancer(1, 4, blockingTarget(&live), q, 10)
	lb.Start(context.Background())
	defer lb.Stop()
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, 1, lb.ProcessCount())

	q.set(50)
	require.NoError(t, lb.Autoscale())
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 2, lb.ProcessCount())
}

func TestLoadBalancerShrinksOnlyWhenNotGrowing(t *testing.T) {
	var live atomic.Int32
	q := &fakeSizer{}
	lb := NewLoadBalancer(1, 4, blockingTarget(&live), q, 10)
	lb.Start(context.Background())
	defer lb.Stop()
	time.Sleep(10 * time.Millisecond)

	q.set(50)
	require.NoError(t, lb.Autoscale())
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, 2, lb.ProcessCount())

	// Still over max_queue_size with headroom left: grows by one more.
	q.set(60)
	require.NoError(t, lb.Autoscale())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 3, lb.ProcessCount(), "over max_queue_size with headroom must grow again")

	// Back under threshold and falling (5 < qPrev=60): shrinks by one.
	q.set(5)
	require.NoError(t, lb.Autoscale())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, lb.ProcessCount())

	// Under threshold but still rising (8 > qPrev=5): the growing guard
	// keeps the pool from shrinking.
	q.set(8)
	require.NoError(t, lb.Autoscale())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 2, lb.ProcessCount(), "must not shrink while the queue is growing")

	q.set(0)
	require.NoError(t, lb.Autoscale())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, lb.ProcessCount())
}

func TestLoadBalancerAtMostOneSizeChangePerTick(t *testing.T) {
	var live atomic.Int32
	q := &fakeSizer{}
	lb := NewLoadBalancer(1, 8, blockingTarget(&live), q, 10)
	lb.Start(context.Background())
	defer lb.Stop()
	time.Sleep(10 * time.Millisecond)

	q.set(100)
	before := lb.ProcessCount()
	require.NoError(t, lb.Autoscale())
	time.Sleep(5 * time.Millisecond)
	after := lb.ProcessCount()
	assert.LessOrEqual(t, after-before, 1)
}
