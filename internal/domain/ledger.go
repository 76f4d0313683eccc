// internal/domain/ledger.go
package domain

import "time"

// LedgerCause classifies what moved a balance.
type LedgerCause string

const (
	LedgerCauseTransaction LedgerCause = "TRANSACTION"
	LedgerCauseCommission  LedgerCause = "COMMISSION"
	LedgerCauseAccrual     LedgerCause = "ACCRUAL"
	LedgerCauseFee         LedgerCause = "FEE"
)

// LedgerEntry is one audit line. Every successful balance mutation appends
// exactly one entry tagged with the causing transaction or commission.
// A nil UserID marks retained platform revenue (the withdrawal fee), which
// is never credited to any account.
type LedgerEntry struct {
	ID        int64       `db:"id" json:"id"`
	UserID    *int64      `db:"user_id" json:"user_id,omitempty"`
	Unit      Unit        `db:"unit" json:"unit"`
	Delta     int64       `db:"delta" json:"delta"`
	CauseType LedgerCause `db:"cause_type" json:"cause_type"`
	CauseID   string      `db:"cause_id" json:"cause_id"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// NewLedgerEntry creates an audit line for a user's balance mutation.
func NewLedgerEntry(userID int64, unit Unit, delta int64, causeType LedgerCause, causeID string) *LedgerEntry {
	return &LedgerEntry{
		UserID:    &userID,
		Unit:      unit,
		Delta:     delta,
		CauseType: causeType,
		CauseID:   causeID,
		CreatedAt: time.Now().UTC(),
	}
}

// NewFeeRetentionEntry records a retained platform fee with no account.
func NewFeeRetentionEntry(unit Unit, amount int64, causeID string) *LedgerEntry {
	return &LedgerEntry{
		Unit:      unit,
		Delta:     amount,
		CauseType: LedgerCauseFee,
		CauseID:   causeID,
		CreatedAt: time.Now().UTC(),
	}
}
