// internal/repository/postgres/investment_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"
	"arivo-ledger/internal/util"

	"github.com/jmoiron/sqlx"
)

// InvestmentRepository implements repository.InvestmentRepository for PostgreSQL.
type InvestmentRepository struct{}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(db *sqlx.DB) repository.InvestmentRepository {
	return &InvestmentRepository{}
}

// CreateInvestment inserts a new investment using the provided DBExecutor.
func (r *InvestmentRepository) CreateInvestment(ctx context.Context, q repository.DBExecutor, investment *domain.Investment) error {
	query := `INSERT INTO investments (user_id, plan_id, principal, currency, daily_return_rate, start_date, status, total_earned, last_accrual_date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		investment.UserID,
		investment.PlanID,
		investment.Principal,
		investment.Currency,
		investment.DailyReturnRate,
		investment.StartDate,
		investment.Status,
		investment.TotalEarned,
		investment.LastAccrualDate,
		investment.CreatedAt,
		investment.UpdatedAt,
	).Scan(&investment.ID)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

// GetByID retrieves an investment by its ID using the provided DBExecutor.
func (r *InvestmentRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Investment, error) {
	var investment domain.Investment
	query := `SELECT id, user_id, plan_id, principal, currency, daily_return_rate, start_date, status, total_earned, last_accrual_date, created_at, updated_at
              FROM investments WHERE id = $1`
	err := q.GetContext(ctx, &investment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get investment %d: %w", id, err)
	}
	return &investment, nil
}

// ListAccruableIDs returns active investments not yet paid for asOfDate.
func (r *InvestmentRepository) ListAccruableIDs(ctx context.Context, q repository.DBExecutor, asOfDate time.Time) ([]int64, error) {
	ids := []int64{}
	query := `SELECT id FROM investments
              WHERE status = $1 AND (last_accrual_date IS NULL OR last_accrual_date < $2)
              ORDER BY id ASC`
	if err := q.SelectContext(ctx, &ids, query, domain.InvestmentStatusActive, asOfDate); err != nil {
		return nil, fmt.Errorf("failed to list accruable investments: %w", err)
	}
	return ids, nil
}

// ListByUserID retrieves a user's investments, newest first.
func (r *InvestmentRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Investment, error) {
	investments := []domain.Investment{}
	query := `SELECT id, user_id, plan_id, principal, currency, daily_return_rate, start_date, status, total_earned, last_accrual_date, created_at, updated_at
              FROM investments WHERE user_id = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &investments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list investments for user %d: %w", userID, err)
	}
	return investments, nil
}

// ClaimAccrual is the check-and-set that makes the daily batch re-run safe:
// the date moves forward and the earnings increment land together, only once
// per calendar day per investment.
func (r *InvestmentRepository) ClaimAccrual(ctx context.Context, q repository.DBExecutor, id int64, asOfDate time.Time, accrual int64) (bool, error) {
	query := `UPDATE investments
              SET last_accrual_date = $2, total_earned = total_earned + $3, updated_at = $4
              WHERE id = $1 AND status = $5 AND (last_accrual_date IS NULL OR last_accrual_date < $2)`
	result, err := q.ExecContext(ctx, query, id, asOfDate, accrual, time.Now().UTC(), domain.InvestmentStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to claim accrual for investment %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected claiming accrual for investment %d: %w", id, err)
	}
	return rowsAffected == 1, nil
}

// MarkCompleted transitions an investment to COMPLETED.
func (r *InvestmentRepository) MarkCompleted(ctx context.Context, q repository.DBExecutor, id int64) error {
	query := `UPDATE investments SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := q.ExecContext(ctx, query, id, domain.InvestmentStatusCompleted, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to complete investment %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected completing investment %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
