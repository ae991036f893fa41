package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/richardliu001/ledger-replay/internal/config"
	"github.com/richardliu001/ledger-replay/internal/logger"
	"github.com/richardliu001/ledger-replay/internal/repo"
	"github.com/richardliu001/ledger-replay/internal/service"
)

func main() {
	cfgPath := flag.String("config", "internal/config/config.yaml", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	log, err := logger.New(cfg.Log.Level, "stdout")
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	if !cfg.Kafka.Enabled {
		log.Fatal("kafka.enabled is false, nothing to relay to")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, closeFn, err := repo.Open(ctx, cfg, log)
	if err != nil {
		log.Fatalf("open repository: %v", err)
	}
	defer closeFn()

	relay := service.NewOutboxRelay(r, cfg.Kafka.BatchSize, log)
	log.Info("ledger-replay poller started")
	relay.Run(ctx, cfg.Kafka.PollInterval)
	log.Info("ledger-replay poller stopped")
}
