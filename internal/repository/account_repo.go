// internal/repository/account_repo.go
package repository

import (
	"context"

	"arivo-ledger/internal/domain"
)

// AccountRepository defines the interface for account data operations.
// Balance mutations are plain adds; validation and ledger bookkeeping live
// in the service layer, behind the per-account row lock taken by
// GetByUserIDForUpdate.
type AccountRepository interface {
	// CreateAccount adds a new zero-balance account using the provided DBExecutor.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetByUserID retrieves an account by user ID.
	GetByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Account, error)
	// GetByUserIDForUpdate retrieves an account and takes its row lock,
	// serializing concurrent settlements touching the same account.
	GetByUserIDForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Account, error)
	// AddBalance adds delta (which may be negative) to the balance of the
	// given currency.
	AddBalance(ctx context.Context, q DBExecutor, userID int64, currency domain.Currency, delta int64) error
	// AddPoints adds delta (which may be negative) to the points balance.
	AddPoints(ctx context.Context, q DBExecutor, userID int64, delta int64) error
	// MarkInvestor sets the one-way investor flag.
	MarkInvestor(ctx context.Context, q DBExecutor, userID int64) error
}
