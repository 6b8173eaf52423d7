// Package config loads and validates the layered configuration for the
// tidepool services (Mercury, Terminus, Salus).
package config

import "time"

// DataPusherConfig describes Mercury's Stage C3 worker pool and its bound
// PUSH port.
type DataPusherConfig struct {
	Port          int `json:"port"`
	MinProcesses  int `json:"minProcesses"`
	MaxProcesses  int `json:"maxProcesses"`
}

// DataValidatorConfig describes Mercury's Stage C2 worker pool.
type DataValidatorConfig struct {
	MinProcesses int `json:"minProcesses"`
	MaxProcesses int `json:"maxProcesses"`
}

// HealthConfig describes the PUB socket a collector binds for telemetry.
type HealthConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// CircuitBreakerConfig tunes a pkg/circuitbreaker guarding one repeated
// external call (a document-store insert, a socket send). Not part of
// either service's JSON config-file contract and not exposed as a flag;
// the values come from defaults only.
type CircuitBreakerConfig struct {
	ErrorThreshold         float64       `json:"-"`
	SuccessThreshold       int           `json:"-"`
	Timeout                time.Duration `json:"-"`
	MaxConcurrentCalls     int           `json:"-"`
	RequestVolumeThreshold int           `json:"-"`
}

// MercuryConfig is the JSON config-file contract for a single collector
// instance (§6).
type MercuryConfig struct {
	Token          string               `json:"token"`
	Alias          string               `json:"alias"`
	Live           bool                 `json:"live"`
	Instruments    []string             `json:"instruments"`
	UseInstruments bool                 `json:"useInstruments"`
	DataPusher     DataPusherConfig     `json:"dataPusher"`
	DataValidator  DataValidatorConfig  `json:"dataValidator"`
	Health         HealthConfig         `json:"health"`

	// PushCircuitBreaker guards the pusher pool's socket sends (§4.4 Stage
	// C3): a peer that stops draining the PUSH socket trips the breaker
	// instead of every worker retrying a blocked send forever.
	PushCircuitBreaker CircuitBreakerConfig `json:"-"`

	// StartupDelay is not part of the JSON contract; it exists so tests can
	// skip the supervised startup pause.
	StartupDelay time.Duration `json:"-"`

	// ShutdownTimeout is carried in the config but not read by the
	// collector: on shutdown each pool's Stop waits for every worker to
	// exit, with no deadline.
	ShutdownTimeout time.Duration `json:"-"`

	// instanceIndex is the -i flag value: which collector this process is.
	// It feeds the health port default (health_port(i) = base+i) and the
	// startup banner; it has no JSON representation.
	instanceIndex int

	Verbose bool `json:"-"`
	Debug   bool `json:"-"`
}

// InstanceIndex returns the collector instance index supplied via -i.
func (c MercuryConfig) InstanceIndex() int {
	return c.instanceIndex
}

// TerminusConfig is the JSON config-file contract for the sink (§6).
type TerminusConfig struct {
	DataIntakePorts []int  `json:"dataIntakePorts"`
	DBHost          string `json:"dbHost"`
	DBPort          int    `json:"dbPort"`
	DBUser          string `json:"dbUser"`
	DBPass          string `json:"dbPass"`

	// RecorderProcesses is the maximum size of Stage S4's worker pool, and
	// Stage S2's processor pool uses the same maximum. It is not in the JSON
	// contract and has no flag; the value comes from defaults only.
	RecorderProcesses int `json:"-"`

	// DedupeBypassRaw decides the dedupe Open Question: when true, Stage S3
	// skips the duplicate check for DBPackets whose dest is "raw" (see
	// DESIGN.md).
	DedupeBypassRaw bool `json:"-"`

	// RecorderCircuitBreaker guards the recorder pool's document-store
	// inserts (§4.5 Stage S4): a flapping store connection trips the
	// breaker instead of every worker hammering a dead connection on every
	// queue item.
	RecorderCircuitBreaker CircuitBreakerConfig `json:"-"`

	ShutdownTimeout time.Duration `json:"-"`

	Verbose bool `json:"-"`
}

// SalusConfig configures the monitor. It has no JSON file contract in the
// spec; it is assembled entirely from CLI flags and defaults.
type SalusConfig struct {
	CollectorHost    string
	CollectorIndices []int
	ReportInterval   time.Duration
	ActionRateWindow time.Duration
	ShutdownTimeout  time.Duration
}
