package repo

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/richardliu001/ledger-replay/internal/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects the backends enabled in cfg. Postgres is required; Redis and
// Kafka are attached only when enabled. The returned func releases them.
func Open(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*Repository, func(), error) {
	gdb, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	var kw *kafka.Writer
	if cfg.Kafka.Enabled {
		kw = &kafka.Writer{
			Addr:     kafka.TCP(cfg.Kafka.Brokers...),
			Topic:    cfg.Kafka.Topic,
			Balancer: &kafka.Hash{},
		}
	}

	r := NewRepository(gdb, rdb, kw, cfg.Redis.TTL, log)
	closeFn := func() {
		if kw != nil {
			if err := kw.Close(); err != nil {
				log.Warnw("close kafka writer", "error", err)
			}
		}
		if rdb != nil {
			_ = rdb.Close()
		}
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return r, closeFn, nil
}
