// Package mercury implements the collector pipeline (§4.4): a stream
// reader pool, a validator pool, and a pusher pool wired together by a
// supervisor that also publishes HealthSnapshots.
package mercury

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/declanomara/tidepool/internal/config"
	"github.com/declanomara/tidepool/internal/domain"
	"github.com/declanomara/tidepool/internal/health"
	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/internal/queue"
	"github.com/declanomara/tidepool/internal/scaling"
	"github.com/declanomara/tidepool/pkg/circuitbreaker"
)

const (
	unvalidatedQueueCapacity = 4096
	validatedQueueCapacity   = 4096

	// supervisorTick is the outer 1 s cadence (§4.4).
	supervisorTick = time.Second
	// innerTick is the 100 ms health-recompute/publish cadence.
	innerTick = 100 * time.Millisecond
	// autoscaleEveryTicks and statusEveryTicks count supervisor ticks.
	autoscaleEveryTicks = 2
	statusEveryTicks    = 5
	// refreshInterval rolls stream readers to dodge server-side timeouts.
	refreshInterval = 10 * time.Minute

	queueGetTimeout = 100 * time.Millisecond
)

// Collector owns Mercury's three pools and its health telemetry.
type Collector struct {
	cfg    config.MercuryConfig
	logger ports.Logger

	streamClient ports.StreamClient
	accountID    string
	instruments  []string

	unvalidated *queue.BoundedQueue[domain.RawTick]
	validated   *queue.BoundedQueue[domain.ValidatedTick]

	reader    *scaling.ScalableGroup
	validator *scaling.LoadBalancer
	pusher    *scaling.LoadBalancer

	pushSocket  ports.Pusher
	healthPub   ports.Publisher
	pushBreaker ports.CircuitBreaker

	collectorActionCount atomic.Int64
	validatorActionCount atomic.Int64
	pusherActionCount    atomic.Int64

	startTime time.Time
}

// New wires a Collector from its config and external collaborators. The
// pusher and health sockets are constructed by the caller (cmd/mercury) so
// tests can substitute in-memory fakes.
func New(cfg config.MercuryConfig, logger ports.Logger, streamClient ports.StreamClient, accountID string, instruments []string, pushSocket ports.Pusher, healthPub ports.Publisher) *Collector {
	c := &Collector{
		cfg:          cfg,
		logger:       logger,
		streamClient: streamClient,
		accountID:    accountID,
		instruments:  instruments,
		unvalidated:  queue.New[domain.RawTick](unvalidatedQueueCapacity),
		validated:    queue.New[domain.ValidatedTick](validatedQueueCapacity),
		pushSocket:   pushSocket,
		healthPub:    healthPub,
		pushBreaker: circuitbreaker.New(
			"pusher-send",
			cfg.PushCircuitBreaker.ErrorThreshold,
			cfg.PushCircuitBreaker.SuccessThreshold,
			cfg.PushCircuitBreaker.Timeout,
			cfg.PushCircuitBreaker.MaxConcurrentCalls,
			cfg.PushCircuitBreaker.RequestVolumeThreshold,
		),
	}

	c.reader = scaling.NewScalableGroup(2, 2, c.readerTarget)
	c.validator = scaling.NewLoadBalancer(cfg.DataValidator.MinProcesses, cfg.DataValidator.MaxProcesses, c.validatorTarget, c.unvalidated, validatedQueueCapacity/4)
	c.pusher = scaling.NewLoadBalancer(cfg.DataPusher.MinProcesses, cfg.DataPusher.MaxProcesses, c.pusherTarget, c.validated, validatedQueueCapacity/4)
	return c
}

// Run starts every pool and blocks running the supervisor loop until ctx is
// canceled, then stops every pool.
func (c *Collector) Run(ctx context.Context) {
	c.startTime = time.Now()
	c.reader.Start(ctx)
	c.validator.Start(ctx)
	c.pusher.Start(ctx)
	defer c.pusher.Stop()
	defer c.validator.Stop()
	defer c.reader.Stop()

	go c.publishLoop(ctx)
	c.supervisorLoop(ctx)
}

func (c *Collector) supervisorLoop(ctx context.Context) {
	ticker := time.NewTicker(supervisorTick)
	defer ticker.Stop()
	refreshTicker := time.NewTicker(refreshInterval)
	defer refreshTicker.Stop()

	var tick int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-refreshTicker.C:
			if err := c.reader.Refresh(); err != nil {
				c.logger.Warn("stream reader refresh failed", ports.Field{Key: "error", Value: err})
			}
		case <-ticker.C:
			tick++
			if tick%autoscaleEveryTicks == 0 {
				c.autoscaleAll()
			}
			if tick%statusEveryTicks == 0 {
				c.logStatus()
			}
		}
	}
}

func (c *Collector) autoscaleAll() {
	if err := c.reader.Autoscale(); err != nil {
		c.logger.Warn("reader autoscale failed", ports.Field{Key: "error", Value: err})
	}
	if err := c.validator.Autoscale(); err != nil {
		c.logger.Warn("validator autoscale failed", ports.Field{Key: "error", Value: err})
	}
	if err := c.pusher.Autoscale(); err != nil {
		c.logger.Warn("pusher autoscale failed", ports.Field{Key: "error", Value: err})
	}
}

func (c *Collector) logStatus() {
	c.logger.Info("collector status",
		ports.Field{Key: "reader_processes", Value: c.reader.ProcessCount()},
		ports.Field{Key: "validator_processes", Value: c.validator.ProcessCount()},
		ports.Field{Key: "pusher_processes", Value: c.pusher.ProcessCount()},
		ports.Field{Key: "unvalidated_queue", Value: c.unvalidated.Size()},
		ports.Field{Key: "validated_queue", Value: c.validated.Size()},
		ports.Field{Key: "collector_action_count", Value: c.collectorActionCount.Load()},
		ports.Field{Key: "validator_action_count", Value: c.validatorActionCount.Load()},
		ports.Field{Key: "pusher_action_count", Value: c.pusherActionCount.Load()},
	)
}

// publishLoop recomputes the HealthSnapshot every innerTick and publishes
// it only when the integer second changes, per the health-publisher
// change-gating behavior.
func (c *Collector) publishLoop(ctx context.Context) {
	ticker := time.NewTicker(innerTick)
	defer ticker.Stop()

	lastPublishedSecond := int64(-1)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := c.buildSnapshot()
			second := int64(snap.Timestamp)
			if second == lastPublishedSecond {
				continue
			}
			lastPublishedSecond = second
			if err := c.healthPub.Send(ctx, health.Encode(snap)); err != nil {
				c.logger.Warn("health publish failed", ports.Field{Key: "error", Value: err})
			}
		}
	}
}

func (c *Collector) buildSnapshot() domain.HealthSnapshot {
	now := time.Now()
	return domain.HealthSnapshot{
		Timestamp: float64(now.UnixNano()) / 1e9,
		Server: domain.ServerHealth{
			UptimeSeconds: now.Sub(c.startTime).Seconds(),
		},
		DataCollector: domain.ProcessPoolHealth{
			NumProcesses: c.reader.ProcessCount(),
			ActionCount:  int(c.collectorActionCount.Load()),
		},
		DataValidator: domain.ProcessPoolHealth{
			NumProcesses: c.validator.ProcessCount(),
			ActionCount:  int(c.validatorActionCount.Load()),
			QueueSize:    c.unvalidated.Size(),
		},
		DataPusher: domain.ProcessPoolHealth{
			NumProcesses: c.pusher.ProcessCount(),
			ActionCount:  int(c.pusherActionCount.Load()),
			QueueSize:    c.validated.Size(),
		},
	}
}
