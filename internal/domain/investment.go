// internal/domain/investment.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus defines the lifecycle state of an investment.
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "ACTIVE"
	InvestmentStatusCompleted InvestmentStatus = "COMPLETED"
	InvestmentStatusCancelled InvestmentStatus = "CANCELLED"
)

// Investment is an active plan subscription created at investment
// settlement. The accrual job credits its daily return until the plan
// duration elapses; LastAccrualDate is the idempotency token that keeps
// re-runs from paying the same day twice.
type Investment struct {
	ID              int64            `db:"id" json:"id"`
	UserID          int64            `db:"user_id" json:"user_id"`
	PlanID          string           `db:"plan_id" json:"plan_id"`
	Principal       int64            `db:"principal" json:"principal"`
	Currency        Currency         `db:"currency" json:"currency"`
	DailyReturnRate decimal.Decimal  `db:"daily_return_rate" json:"daily_return_rate"`
	StartDate       time.Time        `db:"start_date" json:"start_date"`
	Status          InvestmentStatus `db:"status" json:"status"`
	TotalEarned     int64            `db:"total_earned" json:"total_earned"`
	LastAccrualDate *time.Time       `db:"last_accrual_date" json:"last_accrual_date,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// NewInvestment creates an active Investment for the given plan.
func NewInvestment(userID int64, plan Plan, principal int64, currency Currency, startDate time.Time) *Investment {
	now := time.Now().UTC()
	return &Investment{
		UserID:          userID,
		PlanID:          plan.ID,
		Principal:       principal,
		Currency:        currency,
		DailyReturnRate: plan.DailyReturnRate,
		StartDate:       startDate,
		Status:          InvestmentStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// DailyAccrual returns principal * dailyReturnRate, floored to minor units.
func (inv *Investment) DailyAccrual() int64 {
	return decimal.NewFromInt(inv.Principal).Mul(inv.DailyReturnRate).IntPart()
}

// MaturedBy reports whether the plan duration has elapsed as of the given
// date, at which point accrual stops and the investment completes.
func (inv *Investment) MaturedBy(asOf time.Time, durationDays int) bool {
	days := int(DateOnly(asOf).Sub(DateOnly(inv.StartDate)).Hours() / 24)
	return days >= durationDays
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
