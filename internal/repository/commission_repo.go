// internal/repository/commission_repo.go
package repository

import (
	"context"

	"arivo-ledger/internal/domain"
)

// CommissionFilter narrows commission history queries.
type CommissionFilter struct {
	Kind  *domain.CommissionKind
	Level *int
}

// CommissionRepository defines the interface for the append-only commission
// record table.
type CommissionRepository interface {
	// InsertIfAbsent appends a commission record unless one already exists
	// for the same (causing event, kind, level). It reports whether the
	// record was actually inserted; the caller must only pay out when it was.
	InsertIfAbsent(ctx context.Context, q DBExecutor, record *domain.CommissionRecord) (bool, error)
	// ListByBeneficiary retrieves paginated commission history, newest
	// first, along with the total count.
	ListByBeneficiary(ctx context.Context, q DBExecutor, beneficiaryID int64, filter CommissionFilter, limit, offset int) ([]domain.CommissionRecord, int64, error)
}
