package config

import (
	"flag"
	"fmt"
)

// ApplyMercuryFlags parses args against a dedicated FlagSet and overlays any
// explicitly-set value onto cfg. Unlike a single binary sharing the global
// flag set, Mercury/Terminus/Salus are three separate commands, so each gets
// its own FlagSet rather than colliding in flag.CommandLine.
func ApplyMercuryFlags(cfg *MercuryConfig, args []string) error {
	fs := flag.NewFlagSet("mercury", flag.ContinueOnError)

	index := fs.Int("i", -1, "collector instance index (required)")
	verbose := fs.Bool("v", false, "enable verbose (debug) logging")
	debug := fs.Bool("d", false, "enable trace-level logging")
	alias := fs.String("alias", cfg.Alias, "account alias override")
	live := fs.Bool("live", cfg.Live, "use the live trading environment instead of practice")
	pushPort := fs.Int("push-port", cfg.DataPusher.Port, "PUSH socket bind port")
	healthPort := fs.Int("health-port", cfg.Health.Port, "health PUB socket bind port")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *index < 0 {
		return fmt.Errorf("flag -i (collector instance index) is required")
	}
	cfg.instanceIndex = *index
	cfg.Verbose = *verbose
	cfg.Debug = *debug
	cfg.Alias = *alias
	cfg.Live = *live
	cfg.DataPusher.Port = *pushPort
	cfg.Health.Port = *healthPort

	// health_port(i) = base+i unless the file or -health-port chose a port.
	healthPortSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "health-port" {
			healthPortSet = true
		}
	})
	if !healthPortSet && cfg.Health.Port == DefaultMercuryConfig().Health.Port {
		cfg.Health.Port += cfg.instanceIndex
	}
	return nil
}

// ApplyTerminusFlags parses Terminus's flags the same way.
func ApplyTerminusFlags(cfg *TerminusConfig, args []string) error {
	fs := flag.NewFlagSet("terminus", flag.ContinueOnError)

	verbose := fs.Bool("v", false, "enable verbose (debug) logging")
	dbHost := fs.String("db-host", cfg.DBHost, "document store host")
	dbPort := fs.Int("db-port", cfg.DBPort, "document store port")
	bypassRawDedupe := fs.Bool("dedupe-bypass-raw", cfg.DedupeBypassRaw, "skip the duplicate check for raw records")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.Verbose = *verbose
	cfg.DBHost = *dbHost
	cfg.DBPort = *dbPort
	cfg.DedupeBypassRaw = *bypassRawDedupe
	return nil
}

// ApplySalusFlags parses Salus's flags.
func ApplySalusFlags(cfg *SalusConfig, args []string) error {
	fs := flag.NewFlagSet("salus", flag.ContinueOnError)

	host := fs.String("collector-host", cfg.CollectorHost, "collector health-publisher host")
	indices := fs.String("collector-indices", "0", "comma-separated collector instance indices to monitor")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.CollectorHost = *host
	parsed, err := parseIndexList(*indices)
	if err != nil {
		return fmt.Errorf("invalid -collector-indices: %w", err)
	}
	cfg.CollectorIndices = parsed
	return nil
}
