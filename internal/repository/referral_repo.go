// internal/repository/referral_repo.go
package repository

import (
	"context"

	"arivo-ledger/internal/domain"
)

// ReferralRepository defines the interface for the referral forest.
// Edges are immutable back-pointers from a user to their referrer.
type ReferralRepository interface {
	// CreateEdge adds a child-to-parent edge using the provided DBExecutor.
	CreateEdge(ctx context.Context, q DBExecutor, edge *domain.ReferralEdge) error
	// GetParent retrieves the edge for a child, or util.ErrNotFound when
	// the user has no referrer.
	GetParent(ctx context.Context, q DBExecutor, childID int64) (*domain.ReferralEdge, error)
}
