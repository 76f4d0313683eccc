// internal/repository/investment_repo.go
package repository

import (
	"context"
	"time"

	"arivo-ledger/internal/domain"
)

// InvestmentRepository defines the interface for investment data operations.
type InvestmentRepository interface {
	// CreateInvestment adds a new active investment using the provided DBExecutor.
	CreateInvestment(ctx context.Context, q DBExecutor, investment *domain.Investment) error
	// GetByID retrieves an investment by its ID.
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.Investment, error)
	// ListAccruableIDs returns the IDs of active investments whose
	// last_accrual_date is absent or earlier than the given date.
	ListAccruableIDs(ctx context.Context, q DBExecutor, asOfDate time.Time) ([]int64, error)
	// ListByUserID retrieves a user's investments, newest first.
	ListByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Investment, error)
	// ClaimAccrual atomically records one day's accrual: it sets
	// last_accrual_date and adds to total_earned only if the investment is
	// active and the date has not been paid yet. A false return means some
	// other run already claimed this date.
	ClaimAccrual(ctx context.Context, q DBExecutor, id int64, asOfDate time.Time, accrual int64) (bool, error)
	// MarkCompleted transitions an investment to COMPLETED.
	MarkCompleted(ctx context.Context, q DBExecutor, id int64) error
}
