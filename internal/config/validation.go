package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateMercuryConfig checks invariants a collector cannot run without.
func ValidateMercuryConfig(cfg MercuryConfig) error {
	if cfg.Token == "" {
		return fmt.Errorf("token is required")
	}
	if cfg.Alias == "" {
		return fmt.Errorf("alias is required")
	}
	if cfg.UseInstruments && len(cfg.Instruments) == 0 {
		return fmt.Errorf("instruments must be non-empty when useInstruments is true")
	}
	if cfg.DataPusher.MinProcesses < 1 {
		return fmt.Errorf("dataPusher.minProcesses must be >= 1")
	}
	if cfg.DataPusher.MaxProcesses < cfg.DataPusher.MinProcesses {
		return fmt.Errorf("dataPusher.maxProcesses must be >= minProcesses")
	}
	if cfg.DataValidator.MinProcesses < 1 {
		return fmt.Errorf("dataValidator.minProcesses must be >= 1")
	}
	if cfg.DataValidator.MaxProcesses < cfg.DataValidator.MinProcesses {
		return fmt.Errorf("dataValidator.maxProcesses must be >= minProcesses")
	}
	if cfg.DataPusher.Port <= 0 || cfg.DataPusher.Port > 65535 {
		return fmt.Errorf("dataPusher.port out of range: %d", cfg.DataPusher.Port)
	}
	if cfg.Health.Port <= 0 || cfg.Health.Port > 65535 {
		return fmt.Errorf("health.port out of range: %d", cfg.Health.Port)
	}
	return nil
}

// ValidateTerminusConfig checks invariants the sink cannot run without.
func ValidateTerminusConfig(cfg TerminusConfig) error {
	if len(cfg.DataIntakePorts) == 0 {
		return fmt.Errorf("dataIntakePorts must be non-empty")
	}
	for _, p := range cfg.DataIntakePorts {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("dataIntakePorts contains out-of-range port: %d", p)
		}
	}
	if cfg.DBHost == "" {
		return fmt.Errorf("dbHost is required")
	}
	if cfg.DBPort <= 0 || cfg.DBPort > 65535 {
		return fmt.Errorf("dbPort out of range: %d", cfg.DBPort)
	}
	if cfg.RecorderProcesses < 1 {
		return fmt.Errorf("recorder process count must be >= 1")
	}
	return nil
}

// ValidateSalusConfig checks invariants the monitor cannot run without.
func ValidateSalusConfig(cfg SalusConfig) error {
	if cfg.CollectorHost == "" {
		return fmt.Errorf("collector host is required")
	}
	if len(cfg.CollectorIndices) == 0 {
		return fmt.Errorf("at least one collector index must be configured")
	}
	if cfg.ReportInterval <= 0 {
		return fmt.Errorf("report interval must be positive")
	}
	if cfg.ActionRateWindow <= 0 {
		return fmt.Errorf("action rate window must be positive")
	}
	return nil
}

// parseIndexList parses a comma-separated list of non-negative integers,
// e.g. "0,1,2".
func parseIndexList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", p, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("index must be non-negative: %d", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("index list must contain at least one entry")
	}
	return out, nil
}
