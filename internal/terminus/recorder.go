package terminus

import (
	"context"
	"errors"

	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/pkg/circuitbreaker"
	"github.com/google/uuid"
)

// recorderTarget is Stage S4. Each worker opens its own document-store
// connection and inserts every DBPacket's Data into the collection named
// by Dest; transient write errors are logged and the packet is dropped
// without crashing the worker. Inserts are gated by a per-worker circuit
// breaker so a flapping store connection trips open instead of every
// worker hammering it once per queue item (§7 TransientIO).
func (s *Sink) recorderTarget(ctx context.Context, workerID int) {
	workerTag := uuid.NewString()
	store, err := s.storeFactory(ctx)
	if err != nil {
		s.logger.Error("recorder failed to connect",
			ports.Field{Key: "worker_id", Value: workerID},
			ports.Field{Key: "worker_tag", Value: workerTag},
			ports.Field{Key: "error", Value: err},
		)
		return
	}
	defer store.Close(context.Background())

	cb := circuitbreaker.New(
		"recorder-insert",
		s.cfg.RecorderCircuitBreaker.ErrorThreshold,
		s.cfg.RecorderCircuitBreaker.SuccessThreshold,
		s.cfg.RecorderCircuitBreaker.Timeout,
		s.cfg.RecorderCircuitBreaker.MaxConcurrentCalls,
		s.cfg.RecorderCircuitBreaker.RequestVolumeThreshold,
	)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		pkt, err := s.toWrite.Get(ctx, queueGetTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		s.recorderActionCount.Add(1)

		insertErr := cb.Execute(func() error {
			return store.InsertOne(ctx, pkt.Dest, pkt.Data)
		})
		if insertErr != nil {
			if errors.Is(insertErr, circuitbreaker.ErrOpenState) {
				s.logger.Error("recorder insert skipped: circuit open",
					ports.Field{Key: "worker_tag", Value: workerTag},
					ports.Field{Key: "collection", Value: pkt.Dest},
				)
				continue
			}
			s.logger.Error("recorder insert failed",
				ports.Field{Key: "worker_tag", Value: workerTag},
				ports.Field{Key: "collection", Value: pkt.Dest},
				ports.Field{Key: "error", Value: insertErr},
			)
			continue
		}
	}
}
