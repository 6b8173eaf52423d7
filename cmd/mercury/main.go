// Package main boots one Mercury collector instance, wiring configuration,
// logger, the upstream stream client, the ZMQ transport, and the
// collector pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/declanomara/tidepool/internal/config"
	"github.com/declanomara/tidepool/internal/logger"
	"github.com/declanomara/tidepool/internal/mercury"
	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/internal/stream"
	"github.com/declanomara/tidepool/internal/zmqtransport"
)

func main() {
	os.Exit(run())
}

// run contains the program logic and returns an exit code, matching the
// teacher's run()/os.Exit(run()) pattern so deferred cleanup always
// executes before the process exits.
func run() int {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "mercury: %v\n", err)
		return 1
	}

	level := "info"
	if cfg.Debug {
		level = "trace"
	} else if cfg.Verbose {
		level = "debug"
	}
	base, err := logger.NewLogrusLogger(level, "text")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "mercury: failed to initialize logger: %v\n", err)
		return 1
	}
	logr := base.WithFields(ports.Field{Key: "instance", Value: cfg.InstanceIndex()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	streamClient := stream.New(cfg.Token, cfg.Live)

	account, err := streamClient.GetAccount(ctx, cfg.Alias)
	if err != nil {
		logr.Error("failed to resolve account", ports.Field{Key: "error", Value: err})
		return 1
	}

	instruments := cfg.Instruments
	if !cfg.UseInstruments {
		discovered, err := streamClient.ListInstruments(ctx, account.ID)
		if err != nil {
			logr.Error("failed to discover instruments", ports.Field{Key: "error", Value: err})
			return 1
		}
		instruments = make([]string, 0, len(discovered))
		for _, i := range discovered {
			instruments = append(instruments, i.Name)
		}
	}

	pushSocket := zmqtransport.NewPush(ctx)
	pushAddr := fmt.Sprintf("tcp://*:%d", cfg.DataPusher.Port)
	if err := pushSocket.Bind(pushAddr); err != nil {
		logr.Error("failed to bind push socket", ports.Field{Key: "addr", Value: pushAddr}, ports.Field{Key: "error", Value: err})
		return 1
	}
	defer pushSocket.Close()

	healthPub := zmqtransport.NewPub(ctx)
	healthAddr := fmt.Sprintf("tcp://%s:%d", cfg.Health.Host, cfg.Health.Port)
	if err := healthPub.Bind(healthAddr); err != nil {
		logr.Error("failed to bind health pub socket", ports.Field{Key: "addr", Value: healthAddr}, ports.Field{Key: "error", Value: err})
		return 1
	}
	defer healthPub.Close()

	logStartupBanner(logr, cfg, account, instruments)

	if cfg.StartupDelay > 0 {
		select {
		case <-time.After(cfg.StartupDelay):
		case <-ctx.Done():
			return 0
		}
	}

	collector := mercury.New(cfg, logr, streamClient, account.ID, instruments, pushSocket, healthPub)
	collector.Run(ctx)

	logr.Info("mercury shutdown complete")
	return 0
}

func loadConfig(args []string) (config.MercuryConfig, error) {
	index, args := extractInstanceIndex(args)
	path := config.ResolveConfigPath(fmt.Sprintf("mercury%d.json", index))
	return config.LoadMercuryConfig(path, args)
}

// extractInstanceIndex peeks the "-i" flag's value so the config file path
// can be resolved before the full flag set (which also validates -i) runs.
func extractInstanceIndex(args []string) (int, []string) {
	for i, a := range args {
		if a == "-i" && i+1 < len(args) {
			if n := atoiOrZero(args[i+1]); n >= 0 {
				return n, args
			}
		}
		if strings.HasPrefix(a, "-i=") {
			if n := atoiOrZero(strings.TrimPrefix(a, "-i=")); n >= 0 {
				return n, args
			}
		}
	}
	return 0, args
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// logStartupBanner logs the account alias, environment, ports, and a
// truncated instrument list, matching the original's startup banner.
func logStartupBanner(logr ports.Logger, cfg config.MercuryConfig, account ports.Account, instruments []string) {
	shown := instruments
	more := 0
	if len(shown) > 3 {
		more = len(shown) - 3
		shown = shown[:3]
	}
	summary := strings.Join(shown, ",")
	if more > 0 {
		summary = fmt.Sprintf("%s,+%d more", summary, more)
	}

	env := "practice"
	if cfg.Live {
		env = "live"
	}

	logr.Info("starting mercury collector",
		ports.Field{Key: "account", Value: account.Alias},
		ports.Field{Key: "environment", Value: env},
		ports.Field{Key: "data_port", Value: cfg.DataPusher.Port},
		ports.Field{Key: "health_port", Value: cfg.Health.Port},
		ports.Field{Key: "instruments", Value: summary},
	)
}
