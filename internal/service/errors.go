package service

import (
	"errors"
	"fmt"

	"github.com/richardliu001/ledger-replay/internal/model"
)

var (
	// ErrInsufficientFunds is returned when a withdrawal exceeds available funds.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnknownTransaction is returned when a reference points at a tx id
	// never recorded as a deposit or withdrawal.
	ErrUnknownTransaction = errors.New("unknown transaction")
	// ErrNotDisputed is returned when resolve or chargeback targets a tx id
	// that is not under dispute.
	ErrNotDisputed = errors.New("transaction not disputed")
)

// TransactionError wraps one of the sentinels above with the record that
// triggered it.
type TransactionError struct {
	Kind     model.Kind
	ClientID uint16
	TxID     uint32
	Err      error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s client=%d tx=%d: %v", e.Kind, e.ClientID, e.TxID, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

func rejected(tx model.Transaction, err error) error {
	return &TransactionError{Kind: tx.Kind, ClientID: tx.ClientID, TxID: tx.ID, Err: err}
}
