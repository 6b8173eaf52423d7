// Package main boots Terminus, wiring configuration, logger, the document
// store, the ZMQ transport, and the sink pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/declanomara/tidepool/internal/config"
	"github.com/declanomara/tidepool/internal/docstore"
	"github.com/declanomara/tidepool/internal/logger"
	"github.com/declanomara/tidepool/internal/ports"
	"github.com/declanomara/tidepool/internal/terminus"
	"github.com/declanomara/tidepool/internal/zmqtransport"
)

func main() {
	os.Exit(run())
}

func run() int {
	path := config.ResolveConfigPath("terminus.json")
	cfg, err := config.LoadTerminusConfig(path, os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "terminus: %v\n", err)
		return 1
	}

	level := "info"
	if cfg.Verbose {
		level = "debug"
	}
	logr, err := logger.NewLogrusLogger(level, "text")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "terminus: failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logr.Info("starting terminus sink",
		ports.Field{Key: "intake_ports", Value: cfg.DataIntakePorts},
		ports.Field{Key: "db_host", Value: cfg.DBHost},
		ports.Field{Key: "db_port", Value: cfg.DBPort},
	)

	pullerFactory := func(port int) (ports.Puller, error) {
		puller := zmqtransport.NewPull(ctx)
		addr := fmt.Sprintf("tcp://localhost:%d", port)
		if err := puller.Connect(addr); err != nil {
			return nil, err
		}
		return puller, nil
	}

	storeFactory := func(ctx context.Context) (ports.DocumentStore, error) {
		return docstore.Dial(ctx, cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass)
	}

	sink := terminus.New(cfg, logr, pullerFactory, storeFactory)
	sink.Run(ctx)

	logr.Info("terminus shutdown complete")
	return 0
}
