package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/richardliu001/ledger-replay/internal/model"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoPublisher is returned by PublishEvent when no Kafka writer is configured.
var ErrNoPublisher = errors.New("kafka writer not configured")

// RepositoryInterface restricts Repo methods so services can be tested with fakes.
type RepositoryInterface interface {
	DB(ctx context.Context) *gorm.DB
	SaveSnapshots(ctx context.Context, tx *gorm.DB, rows []model.AccountSnapshot) error
	ListSnapshots(ctx context.Context, runID string) ([]model.AccountSnapshot, error)
	CreateOutboxEvents(ctx context.Context, tx *gorm.DB, evts []model.OutboxEvent) error
	PollOutbox(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkOutboxProcessed(ctx context.Context, id uint64) error
	PublishEvent(ctx context.Context, evt model.OutboxEvent) error
	CacheBalance(ctx context.Context, clientID uint16, bal decimal.Decimal) error
	GetCachedBalance(ctx context.Context, clientID uint16) (decimal.Decimal, error)
}

// Repository implements RepositoryInterface. rdb and writer may be nil.
type Repository struct {
	db     *gorm.DB
	rdb    *redis.Client
	writer *kafka.Writer
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// NewRepository constructs repo.
func NewRepository(db *gorm.DB, rdb *redis.Client, w *kafka.Writer, ttl time.Duration, logger *zap.SugaredLogger) *Repository {
	return &Repository{db: db, rdb: rdb, writer: w, ttl: ttl, log: logger}
}

// Migrate creates the snapshot and outbox tables.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&model.AccountSnapshot{}, &model.OutboxEvent{})
}

// DB returns underlying *gorm.DB
func (r *Repository) DB(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

// SaveSnapshots upserts account rows keyed by (run, client).
func (r *Repository) SaveSnapshots(ctx context.Context, tx *gorm.DB, rows []model.AccountSnapshot) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, 500).Error
}

// ListSnapshots returns the rows of one run ordered by client.
func (r *Repository) ListSnapshots(ctx context.Context, runID string) ([]model.AccountSnapshot, error) {
	var rows []model.AccountSnapshot
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("client_id").Find(&rows).Error
	return rows, err
}

// CreateOutboxEvents writes events.
func (r *Repository) CreateOutboxEvents(ctx context.Context, tx *gorm.DB, evts []model.OutboxEvent) error {
	if len(evts) == 0 {
		return nil
	}
	return tx.WithContext(ctx).CreateInBatches(evts, 500).Error
}

// PollOutbox pulls unprocessed events.
func (r *Repository) PollOutbox(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var evts []model.OutboxEvent
	err := r.db.WithContext(ctx).Where("processed = ?", false).Order("id").Limit(limit).Find(&evts).Error
	return evts, err
}

// MarkOutboxProcessed sets processed flag.
func (r *Repository) MarkOutboxProcessed(ctx context.Context, id uint64) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).Where("id = ?", id).
		Updates(map[string]interface{}{"processed": true, "processed_at": &now}).Error
}

// PublishEvent sends to Kafka keyed by aggregate so one client's events stay ordered.
func (r *Repository) PublishEvent(ctx context.Context, evt model.OutboxEvent) error {
	if r.writer == nil {
		return ErrNoPublisher
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", evt.AggregateID)),
		Value: []byte(evt.Payload),
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
			{Key: "run_id", Value: []byte(evt.RunID)},
		},
	}
	return r.writer.WriteMessages(ctx, msg)
}

// CacheBalance writes Redis. It is a no-op without a client.
func (r *Repository) CacheBalance(ctx context.Context, clientID uint16, bal decimal.Decimal) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Set(ctx, balanceKey(clientID), bal.StringFixed(model.Places), r.ttl).Err()
}

// GetCachedBalance reads Redis.
func (r *Repository) GetCachedBalance(ctx context.Context, clientID uint16) (decimal.Decimal, error) {
	if r.rdb == nil {
		return decimal.Zero, redis.Nil
	}
	str, err := r.rdb.Get(ctx, balanceKey(clientID)).Result()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(str)
}

func balanceKey(clientID uint16) string {
	return fmt.Sprintf("balance:%d", clientID)
}
