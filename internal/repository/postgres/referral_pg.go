// internal/repository/postgres/referral_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"
	"arivo-ledger/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ReferralRepository implements repository.ReferralRepository for PostgreSQL.
type ReferralRepository struct{}

// NewReferralRepository creates a new ReferralRepository.
func NewReferralRepository(db *sqlx.DB) repository.ReferralRepository {
	return &ReferralRepository{}
}

// CreateEdge inserts a child-to-parent edge. The child_id primary key keeps
// a user from ever acquiring a second referrer.
func (r *ReferralRepository) CreateEdge(ctx context.Context, q repository.DBExecutor, edge *domain.ReferralEdge) error {
	query := `INSERT INTO referral_edges (child_id, parent_id, created_at) VALUES ($1, $2, $3)`
	_, err := q.ExecContext(ctx, query, edge.ChildID, edge.ParentID, edge.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return util.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create referral edge %d -> %d: %w", edge.ChildID, edge.ParentID, err)
	}
	return nil
}

// GetParent retrieves the referrer edge for a child.
func (r *ReferralRepository) GetParent(ctx context.Context, q repository.DBExecutor, childID int64) (*domain.ReferralEdge, error) {
	var edge domain.ReferralEdge
	query := `SELECT child_id, parent_id, created_at FROM referral_edges WHERE child_id = $1`
	err := q.GetContext(ctx, &edge, query, childID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get referrer for user %d: %w", childID, err)
	}
	return &edge, nil
}
