// Package terminus implements the sink pipeline (§4.5): intake, processor,
// deduplicator, and recorder stages wired together over bounded queues.
package terminus

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/declanomara/tidepool/internal/config"
	"github.com/declanomara/tidepool/internal/domain"
	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/internal/queue"
	"github.com/declanomara/tidepool/internal/scaling"
)

const (
	rawQueueCapacity       = 8192
	processedQueueCapacity = 8192
	writeQueueCapacity     = 8192

	queueGetTimeout = 100 * time.Millisecond
)

// PullerFactory is provided by cmd/terminus so tests can substitute fakes
// without depending on zmqtransport.
type PullerFactory func(port int) (ports.Puller, error)

// StoreFactory constructs one document-store connection per recorder
// worker.
type StoreFactory func(ctx context.Context) (ports.DocumentStore, error)

// Sink owns Terminus's four stages.
type Sink struct {
	cfg    config.TerminusConfig
	logger ports.Logger

	pullerFactory PullerFactory
	storeFactory  StoreFactory

	raw       *queue.BoundedQueue[domain.RawTick]
	processed *queue.BoundedQueue[domain.DBPacket]
	toWrite   *queue.BoundedQueue[domain.DBPacket]

	recorder *scaling.LoadBalancer

	intakeActionCount    atomic.Int64
	processorActionCount atomic.Int64
	dedupeActionCount    atomic.Int64
	duplicateCount       atomic.Int64
	recorderActionCount  atomic.Int64
}

// New wires a Sink from config and its external collaborators.
func New(cfg config.TerminusConfig, logger ports.Logger, pullerFactory PullerFactory, storeFactory StoreFactory) *Sink {
	s := &Sink{
		cfg:           cfg,
		logger:        logger,
		pullerFactory: pullerFactory,
		storeFactory:  storeFactory,
		raw:           queue.New[domain.RawTick](rawQueueCapacity),
		processed:     queue.New[domain.DBPacket](processedQueueCapacity),
		toWrite:       queue.New[domain.DBPacket](writeQueueCapacity),
	}
	s.recorder = scaling.NewLoadBalancer(1, cfg.RecorderProcesses, s.recorderTarget, s.toWrite, writeQueueCapacity/4)
	return s
}

// Run starts every intake goroutine, the processor pool, the single-
// threaded deduplicator, and the recorder pool, then blocks until ctx is
// canceled.
func (s *Sink) Run(ctx context.Context) {
	processor := scaling.NewLoadBalancer(1, s.cfg.RecorderProcesses, s.processorTarget, s.raw, rawQueueCapacity/4)

	s.recorder.Start(ctx)
	defer s.recorder.Stop()
	processor.Start(ctx)
	defer processor.Stop()

	go s.dedupeLoop(ctx)

	for _, port := range s.cfg.DataIntakePorts {
		go s.intakeLoop(ctx, port)
	}

	s.autoscaleLoop(ctx, processor)
}
