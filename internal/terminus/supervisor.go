package terminus

import (
	"context"
	"time"

	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/internal/scaling"
)

const (
	supervisorTick      = time.Second
	autoscaleEveryTicks = 2
	statusEveryTicks    = 5
)

// autoscaleLoop drives the processor and recorder pools' hysteretic
// scaling on the same cadence Mercury's supervisor uses, and periodically
// logs aggregate action counts for every stage.
func (s *Sink) autoscaleLoop(ctx context.Context, processor *scaling.LoadBalancer) {
	ticker := time.NewTicker(supervisorTick)
	defer ticker.Stop()

	var tick int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick++
			if tick%autoscaleEveryTicks == 0 {
				_ = processor.Autoscale()
				_ = s.recorder.Autoscale()
			}
			if tick%statusEveryTicks == 0 {
				s.logStatus(processor)
			}
		}
	}
}

func (s *Sink) logStatus(processor *scaling.LoadBalancer) {
	s.logger.Info("sink status",
		ports.Field{Key: "processor_processes", Value: processor.ProcessCount()},
		ports.Field{Key: "recorder_processes", Value: s.recorder.ProcessCount()},
		ports.Field{Key: "raw_queue", Value: s.raw.Size()},
		ports.Field{Key: "processed_queue", Value: s.processed.Size()},
		ports.Field{Key: "write_queue", Value: s.toWrite.Size()},
		ports.Field{Key: "intake_action_count", Value: s.intakeActionCount.Load()},
		ports.Field{Key: "processor_action_count", Value: s.processorActionCount.Load()},
		ports.Field{Key: "dedupe_action_count", Value: s.dedupeActionCount.Load()},
		ports.Field{Key: "duplicate_count", Value: s.duplicateCount.Load()},
		ports.Field{Key: "recorder_action_count", Value: s.recorderActionCount.Load()},
	)
}
