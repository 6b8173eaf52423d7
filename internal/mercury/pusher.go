package mercury

import (
	"context"
	"errors"

	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/pkg/circuitbreaker"
)

// pusherTarget is Stage C3. A single PUSH socket is bound once for the
// whole pool (bound by the caller and handed to Collector) rather than one
// per worker: ZMQ PUSH sockets round-robin fairly across their connected
// peers on their own, and a TCP port can only be bound once per process, so
// every pusher worker shares the one bound socket and competes for items on
// the validated queue instead. Sends are gated by a pool-wide circuit
// breaker (shared like the socket) so a peer that stops draining trips the
// breaker instead of every worker blocking on the same dead send in turn.
func (c *Collector) pusherTarget(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		item, err := c.validated.Get(ctx, queueGetTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		c.pusherActionCount.Add(1)
		sendErr := c.pushBreaker.Execute(func() error {
			return c.pushSocket.Send(ctx, item.Bytes)
		})
		if sendErr != nil {
			if errors.Is(sendErr, circuitbreaker.ErrOpenState) {
				c.logger.Warn("pusher send skipped: circuit open",
					ports.Field{Key: "worker_id", Value: workerID})
				continue
			}
			c.logger.Warn("pusher send failed",
				ports.Field{Key: "worker_id", Value: workerID},
				ports.Field{Key: "error", Value: sendErr},
			)
		}
	}
}
