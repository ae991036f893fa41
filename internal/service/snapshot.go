package service

import (
	"context"
	"encoding/json"

	"github.com/richardliu001/ledger-replay/internal/model"
	"github.com/richardliu001/ledger-replay/internal/repo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SnapshotService exports the result of a replay: account rows and outbox
// events in one database transaction, then balances to the cache.
type SnapshotService struct {
	repo repo.RepositoryInterface
	log  *zap.SugaredLogger
}

// NewSnapshotService returns SnapshotService.
func NewSnapshotService(r repo.RepositoryInterface, logger *zap.SugaredLogger) *SnapshotService {
	return &SnapshotService{repo: r, log: logger}
}

type snapshotPayload struct {
	RunID     string `json:"run_id"`
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

type rejectionPayload struct {
	RunID  string `json:"run_id"`
	Index  int    `json:"index"`
	Type   string `json:"type"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount,omitempty"`
	Error  string `json:"error"`
}

// Persist writes res under runID.
func (s *SnapshotService) Persist(ctx context.Context, runID string, res Result) error {
	accounts := res.Sorted()
	rows := make([]model.AccountSnapshot, 0, len(accounts))
	evts := make([]model.OutboxEvent, 0, len(accounts)+len(res.Rejections))

	for _, a := range accounts {
		rows = append(rows, model.SnapshotOf(runID, a))
		payload, err := json.Marshal(snapshotPayload{
			RunID:     runID,
			Client:    a.ClientID,
			Available: a.Available.StringFixed(model.Places),
			Held:      a.Held.StringFixed(model.Places),
			Total:     a.Total.StringFixed(model.Places),
			Locked:    a.Locked,
		})
		if err != nil {
			return err
		}
		evts = append(evts, model.OutboxEvent{
			RunID: runID, Aggregate: "Account", AggregateID: uint64(a.ClientID),
			EventType: model.EventAccountSnapshot, Payload: string(payload),
		})
	}
	for _, r := range res.Rejections {
		p := rejectionPayload{
			RunID: runID, Index: r.Index, Type: string(r.Tx.Kind),
			Client: r.Tx.ClientID, Tx: r.Tx.ID, Error: r.Err.Error(),
		}
		if r.Tx.Amount.Valid {
			p.Amount = r.Tx.Amount.Decimal.String()
		}
		payload, err := json.Marshal(p)
		if err != nil {
			return err
		}
		evts = append(evts, model.OutboxEvent{
			RunID: runID, Aggregate: "Account", AggregateID: uint64(r.Tx.ClientID),
			EventType: model.EventTransactionRejected, Payload: string(payload),
		})
	}

	err := s.repo.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.SaveSnapshots(ctx, tx, rows); err != nil {
			return err
		}
		return s.repo.CreateOutboxEvents(ctx, tx, evts)
	})
	if err != nil {
		return err
	}

	for _, a := range accounts {
		if err := s.repo.CacheBalance(ctx, a.ClientID, a.Total); err != nil {
			s.log.Warnw("cache balance", "run_id", runID, "client", a.ClientID, "error", err)
		}
	}
	s.log.Infow("snapshot persisted", "run_id", runID, "accounts", len(rows), "events", len(evts))
	return nil
}
