// internal/domain/account.go
package domain

import "time"

// Currency identifies one of the two externally visible balances.
type Currency string

const (
	// CurrencyMGA is the primary fiat balance, stored in whole ariary.
	CurrencyMGA Currency = "MGA"
	// CurrencyUSDT is the stable-token balance, stored in centi-token
	// minor units (TokenScale per whole token).
	CurrencyUSDT Currency = "USDT"
)

// ValidCurrency reports whether c is a known balance currency.
func ValidCurrency(c Currency) bool {
	return c == CurrencyMGA || c == CurrencyUSDT
}

// Unit is the balance unit of a ledger line. Points are an internal unit,
// not a Currency: transactions are denominated in MGA or USDT only.
type Unit string

const (
	UnitMGA    Unit = "MGA"
	UnitUSDT   Unit = "USDT"
	UnitPoints Unit = "POINTS"
)

// Unit returns the ledger unit for a currency.
func (c Currency) Unit() Unit {
	return Unit(c)
}

// Account holds one user's balances. It is mutated only through transaction
// settlement, commission payout and daily accrual, never directly.
type Account struct {
	UserID       int64     `db:"user_id" json:"user_id"`
	FiatBalance  int64     `db:"fiat_balance" json:"fiat_balance"`   // whole ariary
	TokenBalance int64     `db:"token_balance" json:"token_balance"` // centi-token
	Points       int64     `db:"points" json:"points"`
	IsInvestor   bool      `db:"is_investor" json:"is_investor"` // one-way, set on first completed investment
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a new zero-balance Account instance.
func NewAccount(userID int64) *Account {
	now := time.Now().UTC()
	return &Account{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Balance returns the balance for the given currency.
func (a *Account) Balance(c Currency) int64 {
	if c == CurrencyUSDT {
		return a.TokenBalance
	}
	return a.FiatBalance
}
