package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/richardliu001/ledger-replay/internal/config"
	"github.com/richardliu001/ledger-replay/internal/csvio"
	"github.com/richardliu001/ledger-replay/internal/logger"
	"github.com/richardliu001/ledger-replay/internal/repo"
	"github.com/richardliu001/ledger-replay/internal/service"
	"go.uber.org/zap"
)

const usage = "usage: replay [-config path] [-format csv|table] <transactions.csv>"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "path to config.yaml")
	format := fs.String("format", "", "output format: csv or table")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintf(stderr, "load config: %v\n", err)
			return 1
		}
	}
	if *format != "" {
		cfg.Output.Format = *format
	}

	// stdout carries the report, logs go to stderr
	log, err := logger.NewTo(cfg.Log.Level, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	path := fs.Arg(0)
	txs, err := csvio.ReadFile(path)
	if err != nil {
		log.Errorw("read transactions", "path", path, "error", err)
		return 1
	}
	runID := uuid.NewString()
	log = log.With("run_id", runID)
	log.Infow("transactions loaded", "path", path, "count", len(txs))

	res := service.NewProcessor(log).Process(txs)

	if cfg.Postgres.Enabled {
		if err := persist(context.Background(), cfg, runID, res, log); err != nil {
			log.Errorw("persist snapshot", "error", err)
			return 1
		}
	}

	if err := csvio.Write(stdout, cfg.Output.Format, res.Sorted()); err != nil {
		log.Errorw("write report", "error", err)
		return 1
	}
	return 0
}

func persist(ctx context.Context, cfg *config.Config, runID string, res service.Result, log *zap.SugaredLogger) error {
	r, closeFn, err := repo.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()
	if err := r.Migrate(); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return service.NewSnapshotService(r, log).Persist(ctx, runID, res)
}
