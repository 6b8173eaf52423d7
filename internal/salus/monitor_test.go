package salus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/declanomara/tidepool/internal/config"
	"github.com/declanomara/tidepool/internal/domain"
	"github.com/declanomara/tidepool/internal/health"
	"github.com/declanomara/tidepool/internal/logger"
	"github.com/declanomara/tidepool/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSub struct {
	mu      sync.Mutex
	queued  [][]byte
}

func (f *fakeSub) Connect(addr string) error     { return nil }
func (f *fakeSub) SetFilter(topic string) error  { return nil }
func (f *fakeSub) Close() error                  { return nil }
func (f *fakeSub) Recv(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	if len(f.queued) > 0 {
		b := f.queued[0]
		f.queued = f.queued[1:]
		f.mu.Unlock()
		return b, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSub) push(payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, payload)
}

func testSalusConfig() config.SalusConfig {
	cfg := config.DefaultSalusConfig()
	cfg.CollectorIndices = []int{0}
	cfg.ReportInterval = 50 * time.Millisecond
	cfg.ActionRateWindow = 30 * time.Second
	return cfg
}

func TestMonitorAppendsReceivedSnapshots(t *testing.T) {
	sub := &fakeSub{}
	snap := domain.HealthSnapshot{Timestamp: 1700000000, DataPusher: domain.ProcessPoolHealth{QueueSize: 3}}
	sub.push(health.Encode(snap))

	m := New(testSalusConfig(), logger.NewNop(), func(addr string) (ports.Subscriber, error) { return sub, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	m.Run(ctx)

	coll, ok := m.CollectionFor(0)
	require.True(t, ok)
	latest, ok := coll.Latest()
	require.True(t, ok)
	assert.Equal(t, 3, latest.DataPusher.QueueSize)
}

func TestMonitorStatusDegradesOnQueueSize(t *testing.T) {
	sub := &fakeSub{}
	snap := domain.HealthSnapshot{Timestamp: 1700000000, DataPusher: domain.ProcessPoolHealth{QueueSize: 1500}}
	sub.push(health.Encode(snap))

	m := New(testSalusConfig(), logger.NewNop(), func(addr string) (ports.Subscriber, error) { return sub, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	m.Run(ctx)

	coll, _ := m.CollectionFor(0)
	sev, _ := health.Status(coll)
	assert.Equal(t, health.SeverityDegraded, sev)
}
