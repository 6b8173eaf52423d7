// Package main boots Salus, wiring configuration, logger, the ZMQ
// transport, and the monitor.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/declanomara/tidepool/internal/config"
	"github.com/declanomara/tidepool/internal/logger"
	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/internal/salus"
	"github.com/declanomara/tidepool/internal/zmqtransport"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadSalusConfig(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "salus: %v\n", err)
		return 1
	}

	logr, err := logger.NewLogrusLogger("info", "text")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "salus: failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logr.Info("starting salus monitor",
		ports.Field{Key: "collector_host", Value: cfg.CollectorHost},
		ports.Field{Key: "collector_indices", Value: cfg.CollectorIndices},
	)

	subscriberFactory := func(addr string) (ports.Subscriber, error) {
		sub := zmqtransport.NewSub(ctx)
		if err := sub.Connect(addr); err != nil {
			return nil, err
		}
		if err := sub.SetFilter(""); err != nil {
			return nil, err
		}
		return sub, nil
	}

	monitor := salus.New(cfg, logr, subscriberFactory)
	monitor.Run(ctx)

	logr.Info("salus shutdown complete")
	return 0
}
