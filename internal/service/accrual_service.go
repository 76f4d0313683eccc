// internal/service/accrual_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"
	"arivo-ledger/pkg/db"
)

// AccrualService runs the daily return batch over active investments.
type AccrualService interface {
	// RunDailyAccrual credits each active investment's daily return for the
	// given calendar date, fans out team commissions, and completes
	// investments whose plan duration has elapsed. Safe to re-run: dates
	// already recorded in last_accrual_date are skipped.
	RunDailyAccrual(ctx context.Context, asOf time.Time) (AccrualSummary, error)
}

// AccrualSummary reports one batch run.
type AccrualSummary struct {
	Date      time.Time `json:"date"`
	Credited  int       `json:"credited"`
	Skipped   int       `json:"skipped"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
}

type accrualService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	investments repository.InvestmentRepository
	store       *accountStore
	engine      CommissionEngine
	logger      *slog.Logger
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewAccrualService creates a new AccrualService.
func NewAccrualService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	investments repository.InvestmentRepository,
	accounts repository.AccountRepository,
	ledger repository.LedgerRepository,
	engine CommissionEngine,
	logger *slog.Logger,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AccrualService {
	return &accrualService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		investments: investments,
		store:       newAccountStore(accounts, ledger),
		engine:      engine,
		logger:      logger,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// RunDailyAccrual processes each accruable investment in its own database
// transaction so one bad row cannot poison the rest of the batch.
func (s *accrualService) RunDailyAccrual(ctx context.Context, asOf time.Time) (AccrualSummary, error) {
	date := domain.DateOnly(asOf)
	summary := AccrualSummary{Date: date}

	ids, err := s.investments.ListAccruableIDs(ctx, s.dbExecutor, date)
	if err != nil {
		return summary, fmt.Errorf("daily accrual: %w", err)
	}

	s.logger.Info("starting daily accrual batch", "date", date.Format(time.DateOnly), "candidates", len(ids))

	for _, id := range ids {
		credited, completed, err := s.accrueOne(ctx, id, date)
		switch {
		case err != nil:
			summary.Failed++
			s.logger.Error("failed to accrue investment", "investment_id", id, "error", err)
		case !credited:
			summary.Skipped++
		default:
			summary.Credited++
			if completed {
				summary.Completed++
			}
		}
	}

	s.logger.Info("daily accrual batch finished",
		"date", date.Format(time.DateOnly),
		"credited", summary.Credited,
		"skipped", summary.Skipped,
		"completed", summary.Completed,
		"failed", summary.Failed)

	return summary, nil
}

// accrueOne credits one investment's daily return for the given date.
// The ClaimAccrual check-and-set is the idempotency token: if another run
// (or a concurrent scheduler) already claimed the date, nothing is paid.
func (s *accrualService) accrueOne(ctx context.Context, investmentID int64, date time.Time) (credited, completed bool, err error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return false, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return false, false, fmt.Errorf("transaction controller does not implement DBExecutor")
	}

	investment, err := s.investments.GetByID(ctx, txExecutor, investmentID)
	if err != nil {
		return false, false, err
	}
	if investment.Status != domain.InvestmentStatusActive {
		return false, false, nil
	}

	accrual := investment.DailyAccrual()
	eventID := fmt.Sprintf("accrual:%d:%s", investment.ID, date.Format(time.DateOnly))

	claimed, err := s.investments.ClaimAccrual(ctx, txExecutor, investment.ID, date, accrual)
	if err != nil {
		return false, false, err
	}
	if !claimed {
		return false, false, nil
	}

	if accrual > 0 {
		if err := s.store.credit(ctx, txExecutor, investment.UserID, investment.Currency.Unit(), accrual, domain.LedgerCauseAccrual, eventID); err != nil {
			return false, false, err
		}
		if err := s.engine.FanOut(ctx, txExecutor, investment.UserID, accrual, investment.Currency, domain.CommissionKindTeam, eventID); err != nil {
			return false, false, err
		}
	}

	plan, ok := domain.PlanByID(investment.PlanID)
	if ok && investment.MaturedBy(date, plan.DurationDays) {
		if err := s.investments.MarkCompleted(ctx, txExecutor, investment.ID); err != nil {
			return false, false, err
		}
		completed = true
	}

	if err := s.commitTx(txController); err != nil {
		return false, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, completed, nil
}
