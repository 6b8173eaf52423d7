package terminus

import (
	"context"

	"github.com/declanomara/tidepool/internal/domain"
)

// dedupeRingCapacity matches §4.5 S3's "bounded ring of the last 1000
// DBPackets".
const dedupeRingCapacity = 1000

// dedupeLoop is Stage S3, deliberately single-threaded: the dedupe window
// is a small mutable ring, and serializing access through one goroutine is
// simpler and faster than sharding it while it stays bounded at 1000
// entries.
//
// Whether dest == "raw" records participate in dedupe at all is a
// documented, config-driven decision (see DESIGN.md): a RawRecord embeds
// its own ingest timestamp, so two otherwise-identical raw frames arriving
// a millisecond apart would never structurally match and dedupe would
// never fire for them anyway. DedupeBypassRaw lets an operator skip the
// comparison entirely for that dest instead of paying for a check that can
// never succeed.
func (s *Sink) dedupeLoop(ctx context.Context) {
	ring := make([]domain.DBPacket, 0, dedupeRingCapacity)
	head := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		pkt, err := s.processed.Get(ctx, queueGetTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		s.dedupeActionCount.Add(1)

		if s.cfg.DedupeBypassRaw && pkt.Dest == "raw" {
			if err := s.toWrite.Put(ctx, pkt); err != nil {
				return
			}
			continue
		}

		if containsStructurally(ring, pkt) {
			s.duplicateCount.Add(1)
			continue
		}

		if len(ring) < dedupeRingCapacity {
			ring = append(ring, pkt)
		} else {
			ring[head] = pkt
			head = (head + 1) % dedupeRingCapacity
		}

		if err := s.toWrite.Put(ctx, pkt); err != nil {
			return
		}
	}
}

func containsStructurally(ring []domain.DBPacket, pkt domain.DBPacket) bool {
	for _, r := range ring {
		if r == pkt {
			return true
		}
	}
	return false
}
