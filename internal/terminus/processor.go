package terminus

import (
	"context"
	"time"

	"github.com/declanomara/tidepool/internal/domain"
	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/pkg/jsonx"
)

// processorTarget is Stage S2: every raw frame unconditionally becomes a
// RawRecord DBPacket under "raw"; PRICE frames additionally produce a
// DerivedTick DBPacket under the instrument's own collection.
func (s *Sink) processorTarget(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		tick, err := s.raw.Get(ctx, queueGetTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		s.processorActionCount.Add(1)

		raw := domain.DBPacket{
			Dest: "raw",
			Data: domain.RawRecord{Time: time.Now(), Data: tick.String()},
		}
		if err := s.processed.Put(ctx, raw); err != nil {
			return
		}

		frameType, ok := jsonx.GetTopLevelString(tick.Bytes, "type")
		if !ok || domain.FrameType(frameType) != domain.FramePrice {
			continue
		}

		derived, ok := parsePriceFrame(tick.Bytes)
		if !ok {
			s.logger.Warn("processor could not parse PRICE frame",
				ports.Field{Key: "worker_id", Value: workerID})
			continue
		}
		if err := s.processed.Put(ctx, domain.DBPacket{Dest: derived.Instrument, Data: derived}); err != nil {
			return
		}
	}
}

type priceFields struct {
	Time        string `json:"time"`
	CloseoutBid string `json:"closeoutBid"`
	CloseoutAsk string `json:"closeoutAsk"`
	Status      string `json:"status"`
	Tradeable   bool   `json:"tradeable"`
	Instrument  string `json:"instrument"`
}

func parsePriceFrame(data []byte) (domain.DerivedTick, bool) {
	var p priceFields
	if err := jsonx.Unmarshal(data, &p); err != nil {
		return domain.DerivedTick{}, false
	}
	if p.CloseoutBid == "" || p.CloseoutAsk == "" || p.Instrument == "" {
		return domain.DerivedTick{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, p.Time)
	if err != nil {
		return domain.DerivedTick{}, false
	}
	return domain.DerivedTick{
		Time:       t,
		Bid:        p.CloseoutBid,
		Ask:        p.CloseoutAsk,
		Status:     p.Status,
		Tradeable:  p.Tradeable,
		Instrument: p.Instrument,
	}, true
}
