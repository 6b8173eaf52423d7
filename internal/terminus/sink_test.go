package terminus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/declanomara/tidepool/internal/config"
	"github.com/declanomara/tidepool/internal/domain"
	"github.com/declanomara/tidepool/internal/logger"
	"github.com/declanomara/tidepool/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePuller struct {
	mu     sync.Mutex
	frames [][]byte
	sent   int
}

func (p *fakePuller) Connect(addr string) error { return nil }
func (p *fakePuller) Recv(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	if p.sent < len(p.frames) {
		f := p.frames[p.sent]
		p.sent++
		p.mu.Unlock()
		return f, nil
	}
	p.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}
func (p *fakePuller) Close() error { return nil }

type fakeDocStore struct {
	mu     sync.Mutex
	inserts []insertRecord
}

type insertRecord struct {
	collection string
	doc        any
}

func (f *fakeDocStore) InsertOne(ctx context.Context, collection string, doc any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, insertRecord{collection: collection, doc: doc})
	return nil
}
func (f *fakeDocStore) Ping(ctx context.Context) error  { return nil }
func (f *fakeDocStore) Close(ctx context.Context) error { return nil }

func (f *fakeDocStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserts)
}

func (f *fakeDocStore) countCollection(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.inserts {
		if r.collection == name {
			n++
		}
	}
	return n
}

func testTerminusConfig() config.TerminusConfig {
	cfg := config.DefaultTerminusConfig()
	cfg.DataIntakePorts = []int{7000}
	cfg.RecorderProcesses = 2
	return cfg
}

func TestSinkHeartbeatPassThrough(t *testing.T) {
	puller := &fakePuller{frames: [][]byte{
		[]byte(`{"type":"HEARTBEAT","time":"2024-01-01T00:00:00Z"}`),
	}}
	store := &fakeDocStore{}

	sink := New(testTerminusConfig(), logger.NewNop(),
		func(port int) (ports.Puller, error) { return puller, nil },
		func(ctx context.Context) (ports.DocumentStore, error) { return store, nil },
	)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	sink.Run(ctx)

	assert.Equal(t, 1, store.countCollection("raw"))
	assert.Equal(t, 1, store.count())
}

func TestSinkPriceNormalization(t *testing.T) {
	frame := []byte(`{"type":"PRICE","time":"2024-01-01T00:00:00.123Z","bids":[{"price":"1.1"}],"asks":[{"price":"1.2"}],"closeoutBid":"1.1","closeoutAsk":"1.2","status":"tradeable","tradeable":true,"instrument":"EUR_USD"}`)
	puller := &fakePuller{frames: [][]byte{frame}}
	store := &fakeDocStore{}

	sink := New(testTerminusConfig(), logger.NewNop(),
		func(port int) (ports.Puller, error) { return puller, nil },
		func(ctx context.Context) (ports.DocumentStore, error) { return store, nil },
	)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	sink.Run(ctx)

	assert.Equal(t, 1, store.countCollection("raw"))
	assert.Equal(t, 1, store.countCollection("EUR_USD"))
	assert.Equal(t, 2, store.count())
}

func TestSinkValidationDropMissingField(t *testing.T) {
	frame := []byte(`{"type":"PRICE","time":"2024-01-01T00:00:00Z","instrument":"EUR_USD"}`)
	puller := &fakePuller{frames: [][]byte{frame}}
	store := &fakeDocStore{}

	sink := New(testTerminusConfig(), logger.NewNop(),
		func(port int) (ports.Puller, error) { return puller, nil },
		func(ctx context.Context) (ports.DocumentStore, error) { return store, nil },
	)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	sink.Run(ctx)

	// The processor stage doesn't drop on missing field (that's the
	// validator's job upstream in Mercury); Terminus still records the raw
	// frame but fails to parse a DerivedTick since closeoutBid is absent.
	assert.Equal(t, 1, store.countCollection("raw"))
	assert.Equal(t, 0, store.countCollection("EUR_USD"))
}

func TestDedupeDropsStructuralDuplicates(t *testing.T) {
	cfg := testTerminusConfig()
	sink := New(cfg, logger.NewNop(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sink.dedupeLoop(ctx)

	pkt := domain.DBPacket{Dest: "raw", Data: domain.RawRecord{
		Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Data: "x",
	}}
	require.NoError(t, sink.processed.Put(ctx, pkt))
	require.NoError(t, sink.processed.Put(ctx, pkt))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, sink.toWrite.Size())
	assert.EqualValues(t, 1, sink.duplicateCount.Load())
	assert.EqualValues(t, 2, sink.dedupeActionCount.Load())
}

func TestDedupeBypassRawSkipsComparison(t *testing.T) {
	cfg := testTerminusConfig()
	cfg.DedupeBypassRaw = true
	sink := New(cfg, logger.NewNop(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sink.dedupeLoop(ctx)

	pkt := domain.DBPacket{Dest: "raw", Data: domain.RawRecord{
		Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Data: "x",
	}}
	require.NoError(t, sink.processed.Put(ctx, pkt))
	require.NoError(t, sink.processed.Put(ctx, pkt))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, sink.toWrite.Size())
	assert.EqualValues(t, 0, sink.duplicateCount.Load())
}
