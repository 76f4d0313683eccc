// internal/service/commission_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"
	"arivo-ledger/internal/util"
)

// CommissionEngine fans commission payouts up the referral chain. FanOut
// runs on the caller's DBExecutor so the payouts commit or roll back with
// the settlement (or accrual) that caused them.
type CommissionEngine interface {
	FanOut(ctx context.Context, q repository.DBExecutor, sourceUserID, baseAmount int64, currency domain.Currency, kind domain.CommissionKind, causingEventID string) error
	GetCommissionHistory(ctx context.Context, beneficiaryID int64, filter repository.CommissionFilter, limit, offset int) ([]domain.CommissionRecord, int64, error)
}

type commissionEngine struct {
	dbExecutor  repository.DBExecutor
	referrals   repository.ReferralRepository
	commissions repository.CommissionRepository
	store       *accountStore
	logger      *slog.Logger
}

// NewCommissionEngine creates a new CommissionEngine. dbExecutor serves the
// read-only history queries that run outside any settlement.
func NewCommissionEngine(
	dbExecutor repository.DBExecutor,
	referrals repository.ReferralRepository,
	commissions repository.CommissionRepository,
	accounts repository.AccountRepository,
	ledger repository.LedgerRepository,
	logger *slog.Logger,
) CommissionEngine {
	return &commissionEngine{
		dbExecutor:  dbExecutor,
		referrals:   referrals,
		commissions: commissions,
		store:       newAccountStore(accounts, ledger),
		logger:      logger,
	}
}

// FanOut walks up to three ancestors of sourceUserID and credits each one
// its level's percentage of baseAmount. A missing ancestor ends the walk
// without error: short chains are an expected business outcome, and the
// missing levels are simply not paid. Re-invocation for the same causing
// event is a no-op per (event, kind, level).
func (e *commissionEngine) FanOut(ctx context.Context, q repository.DBExecutor, sourceUserID, baseAmount int64, currency domain.Currency, kind domain.CommissionKind, causingEventID string) error {
	current := sourceUserID
	for level := 1; level <= domain.MaxCommissionLevels; level++ {
		edge, err := e.referrals.GetParent(ctx, q, current)
		if err != nil {
			if util.IsError(err, util.ErrNotFound) {
				e.logger.Debug("referral chain ends before max level",
					"source_user_id", sourceUserID, "level", level, "event", causingEventID)
				return nil
			}
			return fmt.Errorf("fan-out: failed to resolve level %d ancestor of user %d: %w", level, sourceUserID, err)
		}

		rate, _ := domain.CommissionRate(kind, level)
		amount := domain.CommissionAmount(baseAmount, rate)
		if amount > 0 {
			record := domain.NewCommissionRecord(edge.ParentID, sourceUserID, kind, level, rate, amount, currency, causingEventID)
			inserted, err := e.commissions.InsertIfAbsent(ctx, q, record)
			if err != nil {
				return fmt.Errorf("fan-out: failed to record level %d commission: %w", level, err)
			}
			if inserted {
				if err := e.store.credit(ctx, q, edge.ParentID, currency.Unit(), amount, domain.LedgerCauseCommission, causingEventID); err != nil {
					return fmt.Errorf("fan-out: failed to credit level %d beneficiary %d: %w", level, edge.ParentID, err)
				}
			} else {
				e.logger.Warn("skipping duplicate commission payout",
					"beneficiary_id", edge.ParentID, "level", level, "kind", kind, "event", causingEventID)
			}
		}

		current = edge.ParentID
	}
	return nil
}

// GetCommissionHistory retrieves paginated commission records for the
// history and earnings pages.
func (e *commissionEngine) GetCommissionHistory(ctx context.Context, beneficiaryID int64, filter repository.CommissionFilter, limit, offset int) ([]domain.CommissionRecord, int64, error) {
	records, total, err := e.commissions.ListByBeneficiary(ctx, e.dbExecutor, beneficiaryID, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve commission history: %w", err)
	}
	return records, total, nil
}
