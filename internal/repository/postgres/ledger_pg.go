// internal/repository/postgres/ledger_pg.go
package postgres

import (
	"context"
	"fmt"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"

	"github.com/jmoiron/sqlx"
)

// LedgerRepository implements repository.LedgerRepository for PostgreSQL.
type LedgerRepository struct{}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db *sqlx.DB) repository.LedgerRepository {
	return &LedgerRepository{}
}

// Append inserts one audit line using the provided DBExecutor.
func (r *LedgerRepository) Append(ctx context.Context, q repository.DBExecutor, entry *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (user_id, unit, delta, cause_type, cause_id, created_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		entry.UserID, entry.Unit, entry.Delta, entry.CauseType, entry.CauseID, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// ListByUserID retrieves a user's audit lines, newest first.
func (r *LedgerRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.LedgerEntry, error) {
	entries := []domain.LedgerEntry{}
	query := `SELECT id, user_id, unit, delta, cause_type, cause_id, created_at
              FROM ledger_entries WHERE user_id = $1
              ORDER BY created_at DESC
              LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &entries, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to fetch ledger entries for user %d: %w", userID, err)
	}
	return entries, nil
}
