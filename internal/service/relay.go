package service

import (
	"context"
	"time"

	"github.com/richardliu001/ledger-replay/internal/model"
	"go.uber.org/zap"
)

// OutboxStore is the part of the repository the relay needs.
type OutboxStore interface {
	PollOutbox(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	PublishEvent(ctx context.Context, evt model.OutboxEvent) error
	MarkOutboxProcessed(ctx context.Context, id uint64) error
}

// OutboxRelay moves persisted outbox events to the message bus.
type OutboxRelay struct {
	store OutboxStore
	batch int
	log   *zap.SugaredLogger
}

func NewOutboxRelay(store OutboxStore, batch int, logger *zap.SugaredLogger) *OutboxRelay {
	if batch <= 0 {
		batch = 100
	}
	return &OutboxRelay{store: store, batch: batch, log: logger}
}

// RunOnce publishes one batch and returns how many events were sent. A
// failed publish leaves the event unprocessed for the next poll.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	events, err := r.store.PollOutbox(ctx, r.batch)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, evt := range events {
		if err := r.store.PublishEvent(ctx, evt); err != nil {
			r.log.Errorf("publish id=%d: %v", evt.ID, err)
			continue
		}
		if err := r.store.MarkOutboxProcessed(ctx, evt.ID); err != nil {
			r.log.Errorf("mark processed id=%d: %v", evt.ID, err)
			continue
		}
		r.log.Debugf("event %d sent", evt.ID)
		sent++
	}
	return sent, nil
}

// Run polls every interval until ctx is done.
func (r *OutboxRelay) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.Errorf("poll outbox: %v", err)
			}
		}
	}
}
