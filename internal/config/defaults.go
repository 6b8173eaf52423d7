package config

import (
	"github.com/declanomara/tidepool/internal/timeutil"
)

// defaultCircuitBreakerConfig is the baseline applied to both the pusher's
// and recorder's breakers; each may be overridden independently.
func defaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		ErrorThreshold:         50.0,
		SuccessThreshold:       5,
		Timeout:                timeutil.FromMillis(30_000),
		MaxConcurrentCalls:     100,
		RequestVolumeThreshold: 20,
	}
}

// DefaultMercuryConfig returns the baseline collector configuration applied
// before any JSON file or flag is read.
func DefaultMercuryConfig() MercuryConfig {
	return MercuryConfig{
		Live:           false,
		UseInstruments: false,
		DataPusher: DataPusherConfig{
			Port:         7000,
			MinProcesses: 1,
			MaxProcesses: 4,
		},
		DataValidator: DataValidatorConfig{
			MinProcesses: 1,
			MaxProcesses: 4,
		},
		Health: HealthConfig{
			Host: "0.0.0.0",
			Port: 7100,
		},
		PushCircuitBreaker: defaultCircuitBreakerConfig(),
		StartupDelay:       timeutil.FromMillis(3_000),
		ShutdownTimeout:    timeutil.FromMillis(10_000),
	}
}

// DefaultTerminusConfig returns the baseline sink configuration.
func DefaultTerminusConfig() TerminusConfig {
	return TerminusConfig{
		DataIntakePorts:        []int{7000},
		DBHost:                 "127.0.0.1",
		DBPort:                 27017,
		RecorderProcesses:      4,
		DedupeBypassRaw:        false,
		RecorderCircuitBreaker: defaultCircuitBreakerConfig(),
		ShutdownTimeout:        timeutil.FromMillis(10_000),
	}
}

// DefaultSalusConfig returns the baseline monitor configuration.
func DefaultSalusConfig() SalusConfig {
	return SalusConfig{
		CollectorHost:    "127.0.0.1",
		CollectorIndices: []int{0},
		ReportInterval:   timeutil.FromMillis(5_000),
		ActionRateWindow: timeutil.FromMillis(30_000),
		ShutdownTimeout:  timeutil.FromMillis(10_000),
	}
}
