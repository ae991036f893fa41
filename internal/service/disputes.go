package service

import "github.com/richardliu001/ledger-replay/internal/model"

// DisputeTracker holds the tx ids currently under dispute, mapped to the
// dispute record that opened them.
type DisputeTracker struct {
	open map[uint32]model.Transaction
}

func NewDisputeTracker() *DisputeTracker {
	return &DisputeTracker{open: make(map[uint32]model.Transaction)}
}

// Open marks id as disputed. A second dispute on an open id keeps the first record.
func (d *DisputeTracker) Open(tx model.Transaction) {
	if _, ok := d.open[tx.ID]; !ok {
		d.open[tx.ID] = tx
	}
}

// Disputed reports whether id is under dispute.
func (d *DisputeTracker) Disputed(id uint32) bool {
	_, ok := d.open[id]
	return ok
}

// Close removes id from the tracker.
func (d *DisputeTracker) Close(id uint32) {
	delete(d.open, id)
}

func (d *DisputeTracker) Len() int { return len(d.open) }
