// internal/domain/commission.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionKind distinguishes the two commission tables.
type CommissionKind string

const (
	// CommissionKindReferral is paid once, on first investment settlement,
	// as a percentage of the principal.
	CommissionKindReferral CommissionKind = "REFERRAL"
	// CommissionKindTeam is paid daily, at accrual time, as a percentage
	// of the day's accrual amount.
	CommissionKindTeam CommissionKind = "TEAM"
)

// MaxCommissionLevels bounds the ancestor walk up the referral chain.
const MaxCommissionLevels = 3

var (
	referralRates = []decimal.Decimal{
		decimal.NewFromFloat(0.10),
		decimal.NewFromFloat(0.06),
		decimal.NewFromFloat(0.03),
	}
	teamRates = []decimal.Decimal{
		decimal.NewFromFloat(0.06),
		decimal.NewFromFloat(0.03),
		decimal.NewFromFloat(0.01),
	}
)

// CommissionRate returns the payout percentage for a kind and referral
// level (1-based). ok is false for levels outside 1..MaxCommissionLevels.
func CommissionRate(kind CommissionKind, level int) (decimal.Decimal, bool) {
	if level < 1 || level > MaxCommissionLevels {
		return decimal.Zero, false
	}
	if kind == CommissionKindTeam {
		return teamRates[level-1], true
	}
	return referralRates[level-1], true
}

// CommissionAmount applies a percentage to a minor-unit base, flooring.
func CommissionAmount(baseAmount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(baseAmount).Mul(rate).IntPart()
}

// CommissionRecord is one commission payout. Records are append-only audit
// state; the unique (causing event, kind, level) key is what makes fan-out
// idempotent under settlement retries.
type CommissionRecord struct {
	ID             int64           `db:"id" json:"id"`
	BeneficiaryID  int64           `db:"beneficiary_id" json:"beneficiary_id"`
	SourceUserID   int64           `db:"source_user_id" json:"source_user_id"`
	Kind           CommissionKind  `db:"kind" json:"kind"`
	Level          int             `db:"level" json:"level"`
	Percentage     decimal.Decimal `db:"percentage" json:"percentage"`
	Amount         int64           `db:"amount" json:"amount"`
	Currency       Currency        `db:"currency" json:"currency"`
	CausingEventID string          `db:"causing_event_id" json:"causing_event_id"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// NewCommissionRecord creates a commission record for one payout level.
func NewCommissionRecord(beneficiaryID, sourceUserID int64, kind CommissionKind, level int, percentage decimal.Decimal, amount int64, currency Currency, causingEventID string) *CommissionRecord {
	return &CommissionRecord{
		BeneficiaryID:  beneficiaryID,
		SourceUserID:   sourceUserID,
		Kind:           kind,
		Level:          level,
		Percentage:     percentage,
		Amount:         amount,
		Currency:       currency,
		CausingEventID: causingEventID,
		CreatedAt:      time.Now().UTC(),
	}
}
