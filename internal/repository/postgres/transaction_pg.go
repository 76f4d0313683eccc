// internal/repository/postgres/transaction_pg.go
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

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a new transaction record using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, type, currency, amount, status, reference, plan_id, fee_amount, net_amount, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		transaction.UserID,
		transaction.Type,
		transaction.Currency,
		transaction.Amount,
		transaction.Status,
		transaction.Reference,
		transaction.PlanID,
		transaction.FeeAmount,
		transaction.NetAmount,
		transaction.CreatedAt,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by its ID using the provided DBExecutor.
func (r *TransactionRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transaction, error) {
	var transaction domain.Transaction
	query := `SELECT id, user_id, type, currency, amount, status, reference, plan_id, fee_amount, net_amount, reason, created_at, settled_at
              FROM transactions WHERE id = $1`
	err := q.GetContext(ctx, &transaction, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return &transaction, nil
}

// TransitionFromPending performs the compare-and-swap exit from PENDING.
// Exactly one caller observes true for a given transaction; everyone else
// sees false and must treat the transaction as already settled.
func (r *TransactionRepository) TransitionFromPending(ctx context.Context, q repository.DBExecutor, id int64, to domain.TransactionStatus, reason *string, settledAt *time.Time) (bool, error) {
	query := `UPDATE transactions SET status = $2, reason = $3, settled_at = $4
              WHERE id = $1 AND status = $5`
	result, err := q.ExecContext(ctx, query, id, to, reason, settledAt, domain.TransactionStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to transition transaction %d to %s: %w", id, to, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected transitioning transaction %d: %w", id, err)
	}
	return rowsAffected == 1, nil
}

// ListByUserID retrieves a paginated list of a user's transactions.
func (r *TransactionRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}
	query := `SELECT id, user_id, type, currency, amount, status, reference, plan_id, fee_amount, net_amount, reason, created_at, settled_at
              FROM transactions WHERE user_id = $1
              ORDER BY created_at DESC
              LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &transactions, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for user %d: %w", userID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for user %d: %w", userID, err)
	}

	return transactions, totalCount, nil
}

// ListPending retrieves the approval queue, oldest first so admins review
// requests in arrival order.
func (r *TransactionRepository) ListPending(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}
	query := `SELECT id, user_id, type, currency, amount, status, reference, plan_id, fee_amount, net_amount, reason, created_at, settled_at
              FROM transactions WHERE status = $1
              ORDER BY created_at ASC
              LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &transactions, query, domain.TransactionStatusPending, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch pending transactions: %w", err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE status = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, domain.TransactionStatusPending); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending transactions: %w", err)
	}

	return transactions, totalCount, nil
}
