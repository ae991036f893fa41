package service

import (
	"context"
	"errors"
	"testing"

	"github.com/richardliu001/ledger-replay/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOutbox struct {
	events    []model.OutboxEvent
	failOn    uint64
	published []uint64
	marked    []uint64
}

func (f *fakeOutbox) PollOutbox(_ context.Context, limit int) ([]model.OutboxEvent, error) {
	var out []model.OutboxEvent
	for _, e := range f.events {
		if !e.Processed && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeOutbox) PublishEvent(_ context.Context, evt model.OutboxEvent) error {
	if evt.ID == f.failOn {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, evt.ID)
	return nil
}

func (f *fakeOutbox) MarkOutboxProcessed(_ context.Context, id uint64) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i].Processed = true
		}
	}
	f.marked = append(f.marked, id)
	return nil
}

func TestOutboxRelay_RunOnce(t *testing.T) {
	store := &fakeOutbox{
		events: []model.OutboxEvent{{ID: 1}, {ID: 2}, {ID: 3}},
		failOn: 2,
	}
	relay := NewOutboxRelay(store, 10, zap.NewNop().Sugar())

	sent, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []uint64{1, 3}, store.marked)

	store.failOn = 0
	sent, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []uint64{1, 3, 2}, store.published)
}

func TestOutboxRelay_BatchLimit(t *testing.T) {
	store := &fakeOutbox{events: []model.OutboxEvent{{ID: 1}, {ID: 2}, {ID: 3}}}
	relay := NewOutboxRelay(store, 2, zap.NewNop().Sugar())

	sent, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}
