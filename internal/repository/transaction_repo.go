// internal/repository/transaction_repo.go
package repository

import (
	"context"
	"time"

	"arivo-ledger/internal/domain"
)

// TransactionRepository defines the interface for transaction data operations.
type TransactionRepository interface {
	// CreateTransaction adds a new pending transaction record using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetByID retrieves a transaction by its ID.
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.Transaction, error)
	// TransitionFromPending moves a transaction out of PENDING into the
	// given terminal status. It reports false when the transaction was not
	// pending, which is how exactly one concurrent settler wins.
	TransitionFromPending(ctx context.Context, q DBExecutor, id int64, to domain.TransactionStatus, reason *string, settledAt *time.Time) (bool, error)
	// ListByUserID retrieves paginated transaction history for a user,
	// newest first, along with the total count.
	ListByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
	// ListPending retrieves the admin approval queue, oldest first.
	ListPending(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.Transaction, int64, error)
}
