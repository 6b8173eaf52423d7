// Package salus implements the monitor (§4.6): one SUB subscription per
// tracked collector index, a bounded HealthCollection per index, and a
// reporting loop over derived statistics.
package salus

import (
	"context"
	"fmt"
	"time"

	"github.com/declanomara/tidepool/internal/config"
	"github.com/declanomara/tidepool/internal/health"
	"github.com/declanomara/tidepool/internal/ports"
)

// healthPortBase matches Mercury's health_port(i) = 7100 + i addressing.
const healthPortBase = 7100

// SubscriberFactory is provided by cmd/salus so tests can substitute a fake
// subscriber without depending on zmqtransport.
type SubscriberFactory func(addr string) (ports.Subscriber, error)

// Monitor owns one HealthCollection per tracked collector index.
type Monitor struct {
	cfg    config.SalusConfig
	logger ports.Logger

	subscriberFactory SubscriberFactory

	collections map[int]*health.HealthCollection
}

// New wires a Monitor for the collector indices named in cfg.
func New(cfg config.SalusConfig, logger ports.Logger, subscriberFactory SubscriberFactory) *Monitor {
	m := &Monitor{
		cfg:               cfg,
		logger:            logger,
		subscriberFactory: subscriberFactory,
		collections:       make(map[int]*health.HealthCollection, len(cfg.CollectorIndices)),
	}
	for _, i := range cfg.CollectorIndices {
		m.collections[i] = health.NewHealthCollection()
	}
	return m
}

// Run starts one subscriber goroutine per collector index and blocks
// running the reporting loop until ctx is canceled.
func (m *Monitor) Run(ctx context.Context) {
	for _, i := range m.cfg.CollectorIndices {
		go m.subscribeLoop(ctx, i)
	}
	m.reportLoop(ctx)
}

func (m *Monitor) subscribeLoop(ctx context.Context, index int) {
	addr := fmt.Sprintf("tcp://%s:%d", m.cfg.CollectorHost, healthPortBase+index)
	sub, err := m.subscriberFactory(addr)
	if err != nil {
		m.logger.Error("monitor failed to subscribe",
			ports.Field{Key: "collector_index", Value: index},
			ports.Field{Key: "error", Value: err},
		)
		return
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		payload, err := sub.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Warn("monitor recv failed",
				ports.Field{Key: "collector_index", Value: index},
				ports.Field{Key: "error", Value: err},
			)
			continue
		}
		snap, err := health.Decode(payload)
		if err != nil {
			m.logger.Warn("monitor decode failed",
				ports.Field{Key: "collector_index", Value: index},
				ports.Field{Key: "error", Value: err},
			)
			continue
		}
		m.collections[index].Append(snap)
	}
}

// CollectionFor exposes the HealthCollection for a tracked index so tests
// and the status function can query it directly.
func (m *Monitor) CollectionFor(index int) (*health.HealthCollection, bool) {
	c, ok := m.collections[index]
	return c, ok
}

func (m *Monitor) reportLoop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, i := range m.cfg.CollectorIndices {
				m.reportOne(i)
			}
		}
	}
}

func (m *Monitor) reportOne(index int) {
	c := m.collections[index]
	sev, msg := health.Status(c)

	collectorRate, _ := c.VelocityPast(collectorActionCountKey, m.cfg.ActionRateWindow)
	validatorRate, _ := c.VelocityPast(validatorActionCountKey, m.cfg.ActionRateWindow)
	pusherRate, _ := c.VelocityPast(pusherActionCountKey, m.cfg.ActionRateWindow)

	m.logger.Info("collector health",
		ports.Field{Key: "collector_index", Value: index},
		ports.Field{Key: "severity", Value: int(sev)},
		ports.Field{Key: "message", Value: msg},
		ports.Field{Key: "collector_actions_per_sec", Value: collectorRate},
		ports.Field{Key: "validator_actions_per_sec", Value: validatorRate},
		ports.Field{Key: "pusher_actions_per_sec", Value: pusherRate},
	)
}
