package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSnapshot is the persisted final state of one account after a run.
type AccountSnapshot struct {
	RunID     string          `gorm:"primaryKey;size:36"`
	ClientID  uint16          `gorm:"primaryKey;column:client_id"`
	Available decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Held      decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Total     decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Locked    bool            `gorm:"not null;default:false"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (AccountSnapshot) TableName() string { return "account_snapshot" }

// SnapshotOf copies an account into a snapshot row for the given run.
func SnapshotOf(runID string, a Account) AccountSnapshot {
	return AccountSnapshot{
		RunID:     runID,
		ClientID:  a.ClientID,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total,
		Locked:    a.Locked,
	}
}
