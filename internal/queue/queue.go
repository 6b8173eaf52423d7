// Package queue provides the bounded hand-off queue shared by every
// pipeline stage (§4.1), backed by the lock-free ring buffer.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/declanomara/tidepool/pkg/ringbuffer"
)

// ErrEmpty is returned by Get when no item arrived before timeout.
var ErrEmpty = errors.New("queue: empty")

// ErrClosed is returned by Put/Get once the queue has been closed.
var ErrClosed = errors.New("queue: closed")

// pollInterval is how often a blocked Get/Put retries the ring buffer
// while waiting for space or data. Context cancellation and Close are
// noticed as soon as they happen, not on this cadence; the 0.1 s Get
// timeout is chosen by the callers.
const pollInterval = 10 * time.Millisecond

// BoundedQueue is a fixed-capacity, power-of-two-sized FIFO hand-off queue
// used between adjacent pipeline stages. Capacity is rounded up to the
// next power of two.
type BoundedQueue[T any] struct {
	ring   *ringbuffer.RingBuffer[T]
	closed chan struct{}
}

// New creates a BoundedQueue able to hold at least capacity items.
func New[T any](capacity int) *BoundedQueue[T] {
	return &BoundedQueue[T]{
		ring:   ringbuffer.New[T](nextPowerOfTwo(capacity)),
		closed: make(chan struct{}),
	}
}

// Put enqueues item, blocking (subject to ctx) while the queue is full.
func (q *BoundedQueue[T]) Put(ctx context.Context, item T) error {
	v := item
	for {
		select {
		case <-q.closed:
			return ErrClosed
		default:
		}
		if q.ring.Put(&v) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.closed:
			return ErrClosed
		case <-time.After(pollInterval):
		}
	}
}

// Get dequeues the next item, polling until one arrives, timeout elapses,
// or ctx is canceled. It returns ErrEmpty on timeout, never on a single
// empty poll.
func (q *BoundedQueue[T]) Get(ctx context.Context, timeout time.Duration) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)
	for {
		if v := q.ring.Get(); v != nil {
			return *v, nil
		}
		select {
		case <-q.closed:
			return zero, ErrClosed
		default:
		}
		if timeout > 0 && time.Now().After(deadline) {
			return zero, ErrEmpty
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.closed:
			return zero, ErrClosed
		case <-time.After(pollInterval):
		}
	}
}

// Size returns the current queue depth, used by health reporting for
// data_validator.queue_size and data_pusher.queue_size.
func (q *BoundedQueue[T]) Size() int {
	return q.ring.Size()
}

// Close marks the queue closed; blocked and future Put/Get calls return
// ErrClosed.
func (q *BoundedQueue[T]) Close() {
	select {
	case <-q.closed:
	default:
		close(q.closed)
	}
}

func nextPowerOfTwo(n int) uint32 {
	if n < 1 {
		return 1
	}
	p := uint32(1)
	for int(p) < n {
		p <<= 1
	}
	return p
}
