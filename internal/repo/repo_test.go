package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/richardliu001/ledger-replay/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T, rdb *redis.Client) *Repository {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	r := NewRepository(db, rdb, nil, time.Minute, zap.NewNop().Sugar())
	require.NoError(t, r.Migrate())
	return r
}

func TestRepository_SaveSnapshotsUpserts(t *testing.T) {
	r := newTestRepo(t, nil)
	ctx := context.Background()

	a := model.NewAccount(2)
	a.Available = decimal.RequireFromString("1.5")
	a.SumTotal()
	require.NoError(t, r.SaveSnapshots(ctx, r.DB(ctx), []model.AccountSnapshot{
		model.SnapshotOf("run-1", a),
		model.SnapshotOf("run-1", model.NewAccount(1)),
	}))

	a.Locked = true
	require.NoError(t, r.SaveSnapshots(ctx, r.DB(ctx), []model.AccountSnapshot{model.SnapshotOf("run-1", a)}))

	rows, err := r.ListSnapshots(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint16(1), rows[0].ClientID)
	assert.Equal(t, uint16(2), rows[1].ClientID)
	assert.True(t, rows[1].Locked)
	assert.Equal(t, "1.5000", rows[1].Total.StringFixed(4))
}

func TestRepository_Outbox(t *testing.T) {
	r := newTestRepo(t, nil)
	ctx := context.Background()

	require.NoError(t, r.CreateOutboxEvents(ctx, r.DB(ctx), []model.OutboxEvent{
		{RunID: "run-1", Aggregate: "Account", AggregateID: 1, EventType: model.EventAccountSnapshot, Payload: "{}"},
		{RunID: "run-1", Aggregate: "Account", AggregateID: 2, EventType: model.EventTransactionRejected, Payload: "{}"},
	}))

	evts, err := r.PollOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, evts, 2)

	require.NoError(t, r.MarkOutboxProcessed(ctx, evts[0].ID))
	evts, err = r.PollOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, uint64(2), evts[0].AggregateID)

	assert.ErrorIs(t, r.PublishEvent(ctx, evts[0]), ErrNoPublisher)
}

func TestRepository_BalanceCache(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectSet("balance:7", "3.2500", time.Minute).SetVal("OK")
	mock.ExpectGet("balance:7").SetVal("3.2500")

	r := NewRepository(nil, rdb, nil, time.Minute, zap.NewNop().Sugar())
	ctx := context.Background()

	require.NoError(t, r.CacheBalance(ctx, 7, decimal.RequireFromString("3.25")))
	bal, err := r.GetCachedBalance(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "3.25", bal.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_NoCacheClient(t *testing.T) {
	r := NewRepository(nil, nil, nil, time.Minute, zap.NewNop().Sugar())
	assert.NoError(t, r.CacheBalance(context.Background(), 1, decimal.Zero))
	_, err := r.GetCachedBalance(context.Background(), 1)
	assert.ErrorIs(t, err, redis.Nil)
}
