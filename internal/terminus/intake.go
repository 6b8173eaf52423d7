package terminus

import (
	"context"
	"errors"
	"fmt"

	"github.com/declanomara/tidepool/internal/domain"
	"github.com/declanomara/tidepool/internal/ports"
)

// intakeLoop is Stage S1: one per configured collector port. It connects a
// PULL socket to the collector's bound PUSH endpoint and forwards every
// received frame into the raw queue until ctx is canceled.
func (s *Sink) intakeLoop(ctx context.Context, port int) {
	puller, err := s.pullerFactory(port)
	if err != nil {
		s.logger.Error("intake failed to connect",
			ports.Field{Key: "port", Value: port},
			ports.Field{Key: "error", Value: err},
		)
		return
	}
	defer puller.Close()

	addr := fmt.Sprintf("tcp://localhost:%d", port)
	s.logger.Info("intake connected", ports.Field{Key: "addr", Value: addr})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		frame, err := puller.Recv(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Warn("intake recv failed",
				ports.Field{Key: "port", Value: port},
				ports.Field{Key: "error", Value: err},
			)
			continue
		}
		s.intakeActionCount.Add(1)
		if err := s.raw.Put(ctx, domain.RawTick{Bytes: frame}); err != nil {
			return
		}
	}
}
