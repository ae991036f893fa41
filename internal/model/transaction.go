package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the type column of an input record.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind accepts any letter case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Monetary reports whether records of this kind carry an amount of their own.
func (k Kind) Monetary() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Transaction is one ledger event. Dispute, resolve and chargeback records
// reuse the ID of the deposit or withdrawal they reference.
type Transaction struct {
	Kind     Kind
	ClientID uint16
	ID       uint32
	Amount   decimal.NullDecimal
}

// Value returns the amount, or zero when the record has none.
func (t Transaction) Value() decimal.Decimal {
	if !t.Amount.Valid {
		return decimal.Zero
	}
	return t.Amount.Decimal
}

func (t Transaction) String() string {
	if t.Amount.Valid {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", t.Kind, t.ClientID, t.ID, t.Amount.Decimal.String())
	}
	return fmt.Sprintf("%s client=%d tx=%d", t.Kind, t.ClientID, t.ID)
}

// NewDeposit builds a deposit record.
func NewDeposit(client uint16, id uint32, amt decimal.Decimal) Transaction {
	return Transaction{Kind: KindDeposit, ClientID: client, ID: id, Amount: decimal.NewNullDecimal(amt)}
}

// NewWithdrawal builds a withdrawal record.
func NewWithdrawal(client uint16, id uint32, amt decimal.Decimal) Transaction {
	return Transaction{Kind: KindWithdrawal, ClientID: client, ID: id, Amount: decimal.NewNullDecimal(amt)}
}

// NewReference builds a dispute, resolve or chargeback record pointing at id.
func NewReference(kind Kind, client uint16, id uint32) Transaction {
	return Transaction{Kind: kind, ClientID: client, ID: id}
}
