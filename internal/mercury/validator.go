package mercury

import (
	"context"

	"github.com/declanomara/tidepool/internal/domain"
	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/pkg/jsonx"
)

var priceRequiredFields = []string{"time", "bids", "asks", "closeoutBid", "closeoutAsk", "status", "tradeable", "instrument"}
var heartbeatRequiredFields = []string{"time"}

// validatorTarget is Stage C2: JSON-decode each frame, confirm required
// fields for recognized types, and forward valid frames byte-identical to
// the validated queue. Frames of an unrecognized type are forwarded as-is.
func (c *Collector) validatorTarget(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		tick, err := c.unvalidated.Get(ctx, queueGetTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		c.validatorActionCount.Add(1)

		frameType, ok := jsonx.GetTopLevelString(tick.Bytes, "type")
		if !ok {
			c.logger.Warn("validator dropped frame: missing type",
				ports.Field{Key: "worker_id", Value: workerID})
			continue
		}

		switch domain.FrameType(frameType) {
		case domain.FramePrice:
			if missing, ok := requireFields(tick.Bytes, priceRequiredFields); !ok {
				c.logger.Warn("validator dropped PRICE frame: missing field",
					ports.Field{Key: "worker_id", Value: workerID},
					ports.Field{Key: "field", Value: missing},
				)
				continue
			}
		case domain.FrameHeartbeat:
			if missing, ok := requireFields(tick.Bytes, heartbeatRequiredFields); !ok {
				c.logger.Warn("validator dropped HEARTBEAT frame: missing field",
					ports.Field{Key: "worker_id", Value: workerID},
					ports.Field{Key: "field", Value: missing},
				)
				continue
			}
		default:
			// Unrecognized types are forwarded as-is.
		}

		vt := domain.ValidatedTick{Type: domain.FrameType(frameType), Bytes: tick.Bytes}
		if err := c.validated.Put(ctx, vt); err != nil {
			return
		}
	}
}

// requireFields reports the first missing field, if any.
func requireFields(data []byte, fields []string) (missing string, ok bool) {
	var m map[string]any
	if err := jsonx.Unmarshal(data, &m); err != nil {
		return "(unparseable)", false
	}
	for _, f := range fields {
		if _, present := m[f]; !present {
			return f, false
		}
	}
	return "", true
}
