// internal/repository/postgres/account_pg.go
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

// AccountRepository implements repository.AccountRepository for PostgreSQL.
type AccountRepository struct{}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &AccountRepository{}
}

// CreateAccount inserts a new account using the provided DBExecutor.
func (r *AccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	query := `INSERT INTO accounts (user_id, fiat_balance, token_balance, points, is_investor, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.ExecContext(ctx, query,
		account.UserID, account.FiatBalance, account.TokenBalance, account.Points,
		account.IsInvestor, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account for user %d: %w", account.UserID, err)
	}
	return nil
}

// GetByUserID retrieves an account by user ID using the provided DBExecutor.
func (r *AccountRepository) GetByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	return r.get(ctx, q, userID, false)
}

// GetByUserIDForUpdate retrieves an account and locks its row for the
// duration of the surrounding transaction.
func (r *AccountRepository) GetByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	return r.get(ctx, q, userID, true)
}

func (r *AccountRepository) get(ctx context.Context, q repository.DBExecutor, userID int64, forUpdate bool) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT user_id, fiat_balance, token_balance, points, is_investor, created_at, updated_at
              FROM accounts WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	err := q.GetContext(ctx, &account, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}
	return &account, nil
}

// AddBalance adds delta to the balance column of the given currency.
func (r *AccountRepository) AddBalance(ctx context.Context, q repository.DBExecutor, userID int64, currency domain.Currency, delta int64) error {
	column := "fiat_balance"
	if currency == domain.CurrencyUSDT {
		column = "token_balance"
	}
	query := fmt.Sprintf(`UPDATE accounts SET %s = %s + $1, updated_at = $2 WHERE user_id = $3`, column, column)
	return r.exec(ctx, q, query, userID, delta)
}

// AddPoints adds delta to the points balance.
func (r *AccountRepository) AddPoints(ctx context.Context, q repository.DBExecutor, userID int64, delta int64) error {
	query := `UPDATE accounts SET points = points + $1, updated_at = $2 WHERE user_id = $3`
	return r.exec(ctx, q, query, userID, delta)
}

func (r *AccountRepository) exec(ctx context.Context, q repository.DBExecutor, query string, userID, delta int64) error {
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating balance for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// MarkInvestor sets the one-way investor flag.
func (r *AccountRepository) MarkInvestor(ctx context.Context, q repository.DBExecutor, userID int64) error {
	query := `UPDATE accounts SET is_investor = TRUE, updated_at = $1 WHERE user_id = $2`
	result, err := q.ExecContext(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to mark user %d as investor: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected marking user %d as investor: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
