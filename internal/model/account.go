package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits used when rendering balances.
const Places = 4

// Account is the ledger of a single client.
type Account struct {
	ClientID  uint16          `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// NewAccount returns a zeroed, unlocked ledger.
func NewAccount(client uint16) Account {
	return Account{
		ClientID:  client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
	}
}

// SumTotal recomputes Total from Available and Held. Total is never set any
// other way.
func (a *Account) SumTotal() {
	a.Total = a.Available.Add(a.Held)
}

// Fields returns the report columns in header order.
func (a Account) Fields() []string {
	return []string{
		fmt.Sprintf("%d", a.ClientID),
		a.Available.StringFixed(Places),
		a.Held.StringFixed(Places),
		a.Total.StringFixed(Places),
		fmt.Sprintf("%t", a.Locked),
	}
}

// String renders client,available,held,total,locked.
func (a Account) String() string {
	return fmt.Sprintf("%d,%s,%s,%s,%t",
		a.ClientID,
		a.Available.StringFixed(Places),
		a.Held.StringFixed(Places),
		a.Total.StringFixed(Places),
		a.Locked)
}

// AccountHeader is the column header of the balance report.
var AccountHeader = []string{"client", "available", "held", "total", "locked"}
