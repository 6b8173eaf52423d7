package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedQueuePutGet(t *testing.T) {
	q := New[int](4)
	ctx := context.Background()

	require.NoError(t, q.Put(ctx, 1))
	require.NoError(t, q.Put(ctx, 2))
	assert.Equal(t, 2, q.Size())

	v, err := q.Get(ctx, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestBoundedQueueGetTimesOutWhenEmpty(t *testing.T) {
	q := New[int](4)
	_, err := q.Get(context.Background(), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestBoundedQueuePutBlocksWhenFull(t *testing.T) {
	q := New[int](1)
	ctx := context.Background()
	require.NoError(t, q.Put(ctx, 1))

	ctx2, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	err := q.Put(ctx2, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBoundedQueueCloseUnblocksWaiters(t *testing.T) {
	q := New[int](1)
	done := make(chan error, 1)
	go func() {
		_, err := q.Get(context.Background(), time.Second)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Get did not unblock after Close")
	}
}

func TestBoundedQueueSizeAndCapacityRounding(t *testing.T) {
	q := New[int](3)
	assert.Equal(t, 4, q.ring.Capacity())
}
