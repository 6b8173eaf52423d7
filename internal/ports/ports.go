// Package ports defines the service interfaces (ports) used by the application to decouple implementations.
package ports

import (
	"context"
	"time"
)

// Logger defines the interface for logging
type Logger interface {
	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
}

// Field represents a logging field
type Field struct {
	Key   string
	Value interface{}
}

// DocumentStore is the schemaless document-oriented persistence target
// (§6: database "tidepool", collection "raw" plus one collection per
// instrument).
type DocumentStore interface {
	InsertOne(ctx context.Context, collection string, doc any) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Pusher is the sending half of a PUSH/PULL socket pair (load-balanced,
// point-to-point fan-out). Mercury binds one per collector instance and its
// pusher workers share it.
type Pusher interface {
	Bind(addr string) error
	Send(ctx context.Context, payload []byte) error
	Close() error
}

// Puller is the receiving half of a PUSH/PULL socket pair. Terminus's intake
// stage connects one per configured collector port.
type Puller interface {
	Connect(addr string) error
	Recv(ctx context.Context) ([]byte, error)
	Close() error
}

// Publisher is the broadcasting half of a PUB/SUB socket pair. Mercury's
// health publisher binds one per collector instance.
type Publisher interface {
	Bind(addr string) error
	Send(ctx context.Context, payload []byte) error
	Close() error
}

// Subscriber is the receiving half of a PUB/SUB socket pair, subscribed with
// an empty-topic filter (all messages). Salus opens one per monitored
// collector.
type Subscriber interface {
	Connect(addr string) error
	SetFilter(topic string) error
	Recv(ctx context.Context) ([]byte, error)
	Close() error
}

// Account describes a resolved upstream trading account.
type Account struct {
	ID    string
	Alias string
}

// Instrument describes a tradeable symbol available on an account.
type Instrument struct {
	Name        string
	DisplayName string
}

// StreamClient is the upstream HTTP streaming pricing feed (§4.7). It is
// treated as an external collaborator; only its contract is modeled here.
type StreamClient interface {
	GetAccount(ctx context.Context, alias string) (Account, error)
	ListInstruments(ctx context.Context, accountID string) ([]Instrument, error)
	// StreamPrices opens a long-lived streaming connection and invokes onLine
	// for each non-empty line as it arrives. It returns when ctx is canceled
	// or the upstream connection ends, whichever happens first.
	StreamPrices(ctx context.Context, accountID string, instruments []string, onLine func([]byte)) error
}

// HealthStatus represents the health status of a component, distinct from
// the HealthSnapshot telemetry protocol exchanged between Mercury and Salus.
type HealthStatus struct {
	Healthy bool
	Message string
}

// CircuitBreaker defines the interface for circuit breaker pattern
type CircuitBreaker interface {
	Execute(fn func() error) error
	GetState() string
	GetStats() CircuitBreakerStats
}

// CircuitBreakerStats represents circuit breaker statistics
type CircuitBreakerStats struct {
	Requests            uint64
	TotalSuccess        uint64
	TotalFailure        uint64
	ConsecutiveFailures uint64
	State               string
}

// QueueTimeouts bundles the polling cadence used by bounded-queue Get calls.
// The pipeline stages do not use it; mercury and terminus each define their
// own queueGetTimeout constant.
type QueueTimeouts struct {
	Get  time.Duration
	Poll time.Duration
}
