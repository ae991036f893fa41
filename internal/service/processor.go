package service

import (
	"sort"

	"github.com/richardliu001/ledger-replay/internal/model"
	"go.uber.org/zap"
)

// Rejection records a transaction the processor refused.
type Rejection struct {
	Index int
	Tx    model.Transaction
	Err   error
}

// Result is the outcome of a replay.
type Result struct {
	Accounts   map[uint16]model.Account
	Rejections []Rejection
}

// Sorted returns the accounts ordered by client id.
func (r Result) Sorted() []model.Account {
	out := make([]model.Account, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// Processor replays transactions, in the order given, against per-client
// ledgers. It is not safe for concurrent use.
type Processor struct {
	accounts   map[uint16]*model.Account
	history    *History
	disputes   *DisputeTracker
	rejections []Rejection
	applied    int
	log        *zap.SugaredLogger
}

// NewProcessor returns a processor with no accounts.
func NewProcessor(logger *zap.SugaredLogger) *Processor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Processor{
		accounts: make(map[uint16]*model.Account),
		history:  NewHistory(),
		disputes: NewDisputeTracker(),
		log:      logger,
	}
}

// Apply applies a single transaction. A rejected transaction leaves every
// account untouched and is returned as a *TransactionError; the processor
// remains usable.
func (p *Processor) Apply(tx model.Transaction) error {
	idx := p.applied
	p.applied++

	var err error
	if acct, ok := p.accounts[tx.ClientID]; ok {
		err = apply(acct, tx, p.history, p.disputes)
	} else {
		acct := model.NewAccount(tx.ClientID)
		if err = apply(&acct, tx, p.history, p.disputes); err == nil {
			p.accounts[tx.ClientID] = &acct
		}
	}
	if err != nil {
		p.rejections = append(p.rejections, Rejection{Index: idx, Tx: tx, Err: err})
		p.log.Warnw("transaction rejected",
			"index", idx, "type", tx.Kind, "client", tx.ClientID, "tx", tx.ID, "error", err)
	}
	return err
}

// Process applies every transaction in order and returns the result.
func (p *Processor) Process(txs []model.Transaction) Result {
	for _, tx := range txs {
		_ = p.Apply(tx)
	}
	p.log.Infow("replay finished",
		"transactions", len(txs), "accounts", len(p.accounts), "rejected", len(p.rejections))
	return p.Result()
}

// Result returns a copy of the current state.
func (p *Processor) Result() Result {
	accounts := make(map[uint16]model.Account, len(p.accounts))
	for id, a := range p.accounts {
		accounts[id] = *a
	}
	rejections := make([]Rejection, len(p.rejections))
	copy(rejections, p.rejections)
	return Result{Accounts: accounts, Rejections: rejections}
}

// Process replays txs against empty ledgers.
func Process(txs []model.Transaction, logger *zap.SugaredLogger) Result {
	return NewProcessor(logger).Process(txs)
}

// apply mutates acct according to tx. On error acct, history and disputes
// are unchanged.
func apply(acct *model.Account, tx model.Transaction, history *History, disputes *DisputeTracker) error {
	switch tx.Kind {
	case model.KindDeposit:
		acct.Available = acct.Available.Add(tx.Value())
		history.Record(tx)

	case model.KindWithdrawal:
		if acct.Available.LessThan(tx.Value()) {
			return rejected(tx, ErrInsufficientFunds)
		}
		acct.Available = acct.Available.Sub(tx.Value())
		history.Record(tx)

	case model.KindDispute:
		amt, err := history.Amount(tx.ID)
		if err != nil {
			return rejected(tx, err)
		}
		acct.Available = acct.Available.Sub(amt)
		acct.Held = acct.Held.Add(amt)
		disputes.Open(tx)

	case model.KindResolve:
		amt, err := history.Amount(tx.ID)
		if err != nil {
			return rejected(tx, err)
		}
		if !disputes.Disputed(tx.ID) {
			return rejected(tx, ErrNotDisputed)
		}
		acct.Available = acct.Available.Add(amt)
		acct.Held = acct.Held.Sub(amt)
		disputes.Close(tx.ID)

	case model.KindChargeback:
		amt, err := history.Amount(tx.ID)
		if err != nil {
			return rejected(tx, err)
		}
		if !disputes.Disputed(tx.ID) {
			return rejected(tx, ErrNotDisputed)
		}
		acct.Held = acct.Held.Sub(amt)
		acct.Locked = true
		disputes.Close(tx.ID)
	}

	acct.SumTotal()
	return nil
}
