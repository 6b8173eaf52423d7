package mercury

import (
	"context"
	"errors"

	"github.com/declanomara/tidepool/internal/domain"
	"github.com/declanomara/tidepool/internal/ports"
)

// readerTarget is Stage C1: it opens one streaming HTTP connection and
// forwards every non-empty line into the unvalidated queue until the
// stream ends or ctx is canceled, then exits cleanly so the supervisor's
// next autoscale respawns it.
func (c *Collector) readerTarget(ctx context.Context, workerID int) {
	err := c.streamClient.StreamPrices(ctx, c.accountID, c.instruments, func(line []byte) {
		cp := make([]byte, len(line))
		copy(cp, line)
		c.collectorActionCount.Add(1)
		if putErr := c.unvalidated.Put(ctx, domain.RawTick{Bytes: cp}); putErr != nil {
			return
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("stream reader exited",
			ports.Field{Key: "worker_id", Value: workerID},
			ports.Field{Key: "error", Value: err},
		)
	}
}
