// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType defines the type of a financial transaction.
type TransactionType string

const (
	TransactionTypeDeposit        TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal     TransactionType = "WITHDRAWAL"
	TransactionTypeInvestment     TransactionType = "INVESTMENT"
	TransactionTypePointsPurchase TransactionType = "POINTS_PURCHASE"
	TransactionTypePointsExchange TransactionType = "POINTS_EXCHANGE"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeInvestment,
		TransactionTypePointsPurchase, TransactionTypePointsExchange:
		return true
	}
	return false
}

// TransactionStatus defines the status of a financial transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// Transaction represents one money movement request. Balance effects are
// applied exactly once, when the transaction leaves PENDING for COMPLETED.
//
// For POINTS_EXCHANGE the Amount is a point count and Currency is the payout
// currency; for every other type Amount is denominated in Currency.
type Transaction struct {
	ID        int64             `db:"id" json:"id"`
	UserID    int64             `db:"user_id" json:"user_id"`
	Type      TransactionType   `db:"type" json:"type"`
	Currency  Currency          `db:"currency" json:"currency"`
	Amount    int64             `db:"amount" json:"amount"`
	Status    TransactionStatus `db:"status" json:"status"`
	Reference string            `db:"reference" json:"reference"` // unique, generated at creation
	PlanID    *string           `db:"plan_id" json:"plan_id,omitempty"`
	FeeAmount *int64            `db:"fee_amount" json:"fee_amount,omitempty"` // withdrawals: retained platform fee
	NetAmount *int64            `db:"net_amount" json:"net_amount,omitempty"` // withdrawals: amount sent to the payout channel
	Reason    *string           `db:"reason" json:"reason,omitempty"`         // admin rejection reason
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	SettledAt *time.Time        `db:"settled_at" json:"settled_at,omitempty"`
}

// NewTransaction creates a new pending Transaction with a unique reference.
func NewTransaction(userID int64, txType TransactionType, currency Currency, amount int64) *Transaction {
	return &Transaction{
		UserID:    userID,
		Type:      txType,
		Currency:  currency,
		Amount:    amount,
		Status:    TransactionStatusPending,
		Reference: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// IsTerminal reports whether the transaction has reached a final status.
// Terminal transactions are immutable.
func (t *Transaction) IsTerminal() bool {
	return t.Status != TransactionStatusPending
}
