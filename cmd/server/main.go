package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/richardliu001/ledger-replay/internal/config"
	"github.com/richardliu001/ledger-replay/internal/logger"
	"github.com/richardliu001/ledger-replay/internal/repo"
	"github.com/richardliu001/ledger-replay/internal/service"
	httptransport "github.com/richardliu001/ledger-replay/internal/transport/http"
)

func main() {
	cfgPath := flag.String("config", "internal/config/config.yaml", "path to config.yaml")
	flag.Parse()

	// 1. load config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	// 2. init logger
	log, err := logger.New(cfg.Log.Level, "stdout")
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	// 3. optional snapshot store
	var persister httptransport.Persister
	if cfg.Postgres.Enabled {
		r, closeFn, err := repo.Open(context.Background(), cfg, log)
		if err != nil {
			log.Fatalf("open repository: %v", err)
		}
		defer closeFn()
		if err := r.Migrate(); err != nil {
			log.Fatalf("auto-migrate: %v", err)
		}
		persister = service.NewSnapshotService(r, log)
	}

	// 4. gin router
	router := httptransport.NewRouter(httptransport.NewHandler(persister, log), cfg, log)

	// 5. serve
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Infof("ledger-replay server listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
