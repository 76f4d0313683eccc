// internal/repository/ledger_repo.go
package repository

import (
	"context"

	"arivo-ledger/internal/domain"
)

// LedgerRepository defines the interface for the append-only audit ledger.
type LedgerRepository interface {
	// Append adds one audit line using the provided DBExecutor.
	Append(ctx context.Context, q DBExecutor, entry *domain.LedgerEntry) error
	// ListByUserID retrieves a user's audit lines, newest first.
	ListByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.LedgerEntry, error)
}
