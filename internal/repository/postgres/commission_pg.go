// internal/repository/postgres/commission_pg.go
package postgres

import (
	"context"
	"fmt"
	"strconv"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"

	"github.com/jmoiron/sqlx"
)

// CommissionRepository implements repository.CommissionRepository for PostgreSQL.
type CommissionRepository struct{}

// NewCommissionRepository creates a new CommissionRepository.
func NewCommissionRepository(db *sqlx.DB) repository.CommissionRepository {
	return &CommissionRepository{}
}

// InsertIfAbsent appends a commission record, relying on the unique index
// over (causing_event_id, kind, level) to swallow duplicates. The returned
// bool is authoritative: false means this payout already happened.
func (r *CommissionRepository) InsertIfAbsent(ctx context.Context, q repository.DBExecutor, record *domain.CommissionRecord) (bool, error) {
	query := `INSERT INTO commission_records (beneficiary_id, source_user_id, kind, level, percentage, amount, currency, causing_event_id, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              ON CONFLICT (causing_event_id, kind, level) DO NOTHING`
	result, err := q.ExecContext(ctx, query,
		record.BeneficiaryID,
		record.SourceUserID,
		record.Kind,
		record.Level,
		record.Percentage,
		record.Amount,
		record.Currency,
		record.CausingEventID,
		record.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert commission record: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected inserting commission record: %w", err)
	}
	return rowsAffected == 1, nil
}

// ListByBeneficiary retrieves paginated commission history with optional
// kind and level filters.
func (r *CommissionRepository) ListByBeneficiary(ctx context.Context, q repository.DBExecutor, beneficiaryID int64, filter repository.CommissionFilter, limit, offset int) ([]domain.CommissionRecord, int64, error) {
	where := `WHERE beneficiary_id = $1`
	args := []interface{}{beneficiaryID}
	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		where += ` AND kind = $` + strconv.Itoa(len(args))
	}
	if filter.Level != nil {
		args = append(args, *filter.Level)
		where += ` AND level = $` + strconv.Itoa(len(args))
	}

	records := []domain.CommissionRecord{}
	listArgs := append(append([]interface{}{}, args...), limit, offset)
	query := `SELECT id, beneficiary_id, source_user_id, kind, level, percentage, amount, currency, causing_event_id, created_at
              FROM commission_records ` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	if err := q.SelectContext(ctx, &records, query, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch commissions for user %d: %w", beneficiaryID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM commission_records ` + where
	if err := q.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count commissions for user %d: %w", beneficiaryID, err)
	}

	return records, totalCount, nil
}
