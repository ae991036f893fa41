package service

import (
	"github.com/richardliu001/ledger-replay/internal/model"
	"github.com/shopspring/decimal"
)

// History indexes accepted deposits and withdrawals by tx id. The first
// record stored under an id is kept for the rest of the run.
type History struct {
	txs map[uint32]model.Transaction
}

// NewHistory returns an empty store.
func NewHistory() *History {
	return &History{txs: make(map[uint32]model.Transaction)}
}

// Record stores tx unless its id is already present. It reports whether the
// record was stored.
func (h *History) Record(tx model.Transaction) bool {
	if _, ok := h.txs[tx.ID]; ok {
		return false
	}
	h.txs[tx.ID] = tx
	return true
}

// Get returns the record stored under id.
func (h *History) Get(id uint32) (model.Transaction, bool) {
	tx, ok := h.txs[id]
	return tx, ok
}

// Amount returns the amount of the record stored under id.
func (h *History) Amount(id uint32) (decimal.Decimal, error) {
	tx, ok := h.txs[id]
	if !ok {
		return decimal.Zero, ErrUnknownTransaction
	}
	return tx.Value(), nil
}

// Len returns the number of stored records.
func (h *History) Len() int { return len(h.txs) }
