// internal/service/account_store.go
package service

import (
	"context"
	"fmt"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"
	"arivo-ledger/internal/util"
)

// accountStore is the single writer for account balances. Every mutation
// runs against an account row locked by the caller's DB transaction and
// appends exactly one audit ledger line tagged with its cause. Nothing else
// in the system touches balances.
type accountStore struct {
	accounts repository.AccountRepository
	ledger   repository.LedgerRepository
}

func newAccountStore(accounts repository.AccountRepository, ledger repository.LedgerRepository) *accountStore {
	return &accountStore{accounts: accounts, ledger: ledger}
}

// credit adds amount to a user's balance in the given unit.
func (s *accountStore) credit(ctx context.Context, q repository.DBExecutor, userID int64, unit domain.Unit, amount int64, cause domain.LedgerCause, causeID string) error {
	if amount <= 0 {
		return util.ErrInvalidAmount
	}
	if err := s.add(ctx, q, userID, unit, amount); err != nil {
		return err
	}
	if err := s.ledger.Append(ctx, q, domain.NewLedgerEntry(userID, unit, amount, cause, causeID)); err != nil {
		return fmt.Errorf("credit: failed to append ledger entry: %w", err)
	}
	return nil
}

// debit removes amount from a user's balance in the given unit. The caller
// must already hold the account's row lock; debit re-reads under that lock
// so the balance check and the subtraction cannot interleave with another
// settlement.
func (s *accountStore) debit(ctx context.Context, q repository.DBExecutor, userID int64, unit domain.Unit, amount int64, cause domain.LedgerCause, causeID string) error {
	if amount <= 0 {
		return util.ErrInvalidAmount
	}
	account, err := s.accounts.GetByUserIDForUpdate(ctx, q, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return util.ErrAccountNotFound
		}
		return fmt.Errorf("debit: failed to load account %d: %w", userID, err)
	}
	if unit == domain.UnitPoints {
		if account.Points < amount {
			return util.ErrInsufficientPoints
		}
	} else if account.Balance(domain.Currency(unit)) < amount {
		return util.ErrInsufficientFunds
	}
	if err := s.add(ctx, q, userID, unit, -amount); err != nil {
		return err
	}
	if err := s.ledger.Append(ctx, q, domain.NewLedgerEntry(userID, unit, -amount, cause, causeID)); err != nil {
		return fmt.Errorf("debit: failed to append ledger entry: %w", err)
	}
	return nil
}

func (s *accountStore) add(ctx context.Context, q repository.DBExecutor, userID int64, unit domain.Unit, delta int64) error {
	if unit == domain.UnitPoints {
		return s.accounts.AddPoints(ctx, q, userID, delta)
	}
	return s.accounts.AddBalance(ctx, q, userID, domain.Currency(unit), delta)
}

// retainFee records platform revenue that leaves the user's balance but is
// credited to no account.
func (s *accountStore) retainFee(ctx context.Context, q repository.DBExecutor, unit domain.Unit, amount int64, causeID string) error {
	if err := s.ledger.Append(ctx, q, domain.NewFeeRetentionEntry(unit, amount, causeID)); err != nil {
		return fmt.Errorf("failed to record retained fee: %w", err)
	}
	return nil
}

// markInvestor sets the permanent investor flag.
func (s *accountStore) markInvestor(ctx context.Context, q repository.DBExecutor, userID int64) error {
	if err := s.accounts.MarkInvestor(ctx, q, userID); err != nil {
		return fmt.Errorf("failed to set investor flag for user %d: %w", userID, err)
	}
	return nil
}
