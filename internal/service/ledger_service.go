// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"
	"arivo-ledger/internal/util"
	"arivo-ledger/pkg/db"
)

// Policy holds the operator-configurable settlement knobs.
type Policy struct {
	// AutoSettleDeposits settles deposits immediately at creation instead
	// of parking them in the admin approval queue.
	AutoSettleDeposits bool
	// MinWithdrawalFiat is the smallest accepted withdrawal in whole ariary.
	MinWithdrawalFiat int64
	// MinWithdrawalToken is the smallest accepted withdrawal in token minor units.
	MinWithdrawalToken int64
}

// Deposit minimums are fixed platform rules, not operator knobs.
const (
	minDepositFiat  = 10_000
	minDepositToken = 2 * domain.TokenScale
)

// maxReferralWalk bounds the cycle-check walk so corrupt edge data cannot
// spin forever.
const maxReferralWalk = 10_000

// CreateTransactionInput carries the user-facing transaction request.
type CreateTransactionInput struct {
	UserID   int64
	Type     domain.TransactionType
	Currency domain.Currency
	Amount   int64
	PlanID   string // investments only
}

// LedgerService defines the interface for the ledger's business logic: the
// transaction lifecycle, account registration, points exchange, and the
// read models behind the dashboard pages.
type LedgerService interface {
	RegisterAccount(ctx context.Context, userID int64, referrerID *int64) (*domain.Account, error)
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error)
	SettleTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	RejectTransaction(ctx context.Context, transactionID int64, reason string) (*domain.Transaction, error)
	CancelTransaction(ctx context.Context, transactionID, requesterID int64) (*domain.Transaction, error)
	ExchangePoints(ctx context.Context, userID, points int64, target domain.Currency) (*domain.Transaction, error)
	GetAccountSnapshot(ctx context.Context, userID int64) (*domain.Account, error)
	GetTransactionHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
	GetInvestments(ctx context.Context, userID int64) ([]domain.Investment, error)
	GetLedgerHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.LedgerEntry, error)
	ListPendingTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, int64, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner   db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor   repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	investments  repository.InvestmentRepository
	referrals    repository.ReferralRepository
	store        *accountStore
	engine       CommissionEngine
	policy       Policy
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	accounts repository.AccountRepository,
	transactions repository.TransactionRepository,
	investments repository.InvestmentRepository,
	referrals repository.ReferralRepository,
	ledger repository.LedgerRepository,
	engine CommissionEngine,
	policy Policy,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:   dbBeginner,
		dbExecutor:   dbExecutor,
		accounts:     accounts,
		transactions: transactions,
		investments:  investments,
		referrals:    referrals,
		store:        newAccountStore(accounts, ledger),
		engine:       engine,
		policy:       policy,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
	}
}

// RegisterAccount creates a zero-balance account and, when a referrer is
// given, the immutable referral edge. The edge is rejected when the referrer
// is already a descendant of the new user, which keeps the forest acyclic.
func (s *ledgerService) RegisterAccount(ctx context.Context, userID int64, referrerID *int64) (*domain.Account, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("register account: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("register account: transaction controller does not implement DBExecutor")
	}

	if _, err := s.accounts.GetByUserID(ctx, txExecutor, userID); err == nil {
		return nil, util.ErrDuplicateEntry
	} else if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("register account: failed to check existing account: %w", err)
	}

	if referrerID != nil {
		if err := s.checkReferrer(ctx, txExecutor, userID, *referrerID); err != nil {
			return nil, err
		}
	}

	account := domain.NewAccount(userID)
	if err := s.accounts.CreateAccount(ctx, txExecutor, account); err != nil {
		return nil, fmt.Errorf("register account: failed to create account: %w", err)
	}

	if referrerID != nil {
		edge := domain.NewReferralEdge(userID, *referrerID)
		if err := s.referrals.CreateEdge(ctx, txExecutor, edge); err != nil {
			return nil, fmt.Errorf("register account: failed to create referral edge: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("register account: failed to commit transaction: %w", err)
	}

	return account, nil
}

// checkReferrer verifies the referrer exists and is not the new user or one
// of its descendants.
func (s *ledgerService) checkReferrer(ctx context.Context, q repository.DBExecutor, userID, referrerID int64) error {
	if referrerID == userID {
		return util.ErrCyclicReferral
	}
	if _, err := s.accounts.GetByUserID(ctx, q, referrerID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return util.ErrAccountNotFound
		}
		return fmt.Errorf("failed to check referrer account %d: %w", referrerID, err)
	}
	current := referrerID
	for i := 0; i < maxReferralWalk; i++ {
		edge, err := s.referrals.GetParent(ctx, q, current)
		if err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("failed to walk referral chain from %d: %w", referrerID, err)
		}
		if edge.ParentID == userID {
			return util.ErrCyclicReferral
		}
		current = edge.ParentID
	}
	return fmt.Errorf("referral chain from %d exceeds %d edges", referrerID, maxReferralWalk)
}

// CreateTransaction validates and persists a pending transaction. Validation
// failures surface here, before the request ever reaches the approval queue;
// no balance moves until settlement.
func (s *ledgerService) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if !domain.ValidTransactionType(input.Type) {
		return nil, util.ErrInvalidInput
	}
	if input.Type == domain.TransactionTypePointsExchange {
		// Points exchanges carry a point count, not a currency amount, and
		// are created through ExchangePoints.
		return nil, util.ErrInvalidInput
	}
	if input.Amount <= 0 {
		return nil, util.ErrInvalidAmount
	}
	if !domain.ValidCurrency(input.Currency) {
		return nil, util.ErrInvalidCurrency
	}

	account, err := s.accounts.GetByUserID(ctx, s.dbExecutor, input.UserID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("create transaction: failed to load account %d: %w", input.UserID, err)
	}

	transaction := domain.NewTransaction(input.UserID, input.Type, input.Currency, input.Amount)

	switch input.Type {
	case domain.TransactionTypeDeposit:
		min := int64(minDepositFiat)
		if input.Currency == domain.CurrencyUSDT {
			min = minDepositToken
		}
		if input.Amount < min {
			return nil, util.ErrBelowMinimum
		}

	case domain.TransactionTypeWithdrawal:
		min := s.policy.MinWithdrawalFiat
		if input.Currency == domain.CurrencyUSDT {
			min = s.policy.MinWithdrawalToken
		}
		if input.Amount < min {
			return nil, util.ErrBelowMinimum
		}
		if account.Balance(input.Currency) < input.Amount {
			return nil, util.ErrInsufficientFunds
		}
		fee, net := domain.WithdrawalBreakdown(input.Amount)
		transaction.FeeAmount = &fee
		transaction.NetAmount = &net

	case domain.TransactionTypeInvestment:
		plan, ok := domain.PlanByID(input.PlanID)
		if !ok {
			return nil, util.ErrUnknownPlan
		}
		if domain.FiatEquivalent(input.Amount, input.Currency) < plan.MinPrincipal {
			return nil, util.ErrBelowMinimum
		}
		if account.Balance(input.Currency) < input.Amount {
			return nil, util.ErrInsufficientFunds
		}
		planID := plan.ID
		transaction.PlanID = &planID

	case domain.TransactionTypePointsPurchase:
		if input.Currency != domain.CurrencyMGA {
			return nil, util.ErrInvalidCurrency
		}
		points, exact := domain.CurrencyToPoints(input.Amount)
		if !exact {
			return nil, util.ErrInvalidAmount
		}
		if points < 1 {
			return nil, util.ErrBelowMinimum
		}
		if account.FiatBalance < input.Amount {
			return nil, util.ErrInsufficientFunds
		}
	}

	if err := s.persistPending(ctx, transaction); err != nil {
		return nil, err
	}

	if input.Type == domain.TransactionTypeDeposit && s.policy.AutoSettleDeposits {
		return s.SettleTransaction(ctx, transaction.ID)
	}

	return transaction, nil
}

func (s *ledgerService) persistPending(ctx context.Context, transaction *domain.Transaction) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("create transaction: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("create transaction: transaction controller does not implement DBExecutor")
	}

	if err := s.transactions.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return fmt.Errorf("create transaction: failed to persist: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("create transaction: failed to commit transaction: %w", err)
	}
	return nil
}

// SettleTransaction moves a pending transaction to COMPLETED and applies its
// balance effects exactly once. The pending-state compare-and-swap is the
// idempotency guarantee: a second call, or the loser of a concurrent race,
// gets ErrAlreadySettled and mutates nothing. Effects and the status change
// share one database transaction, so settlement is all-or-nothing.
func (s *ledgerService) SettleTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("settle: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("settle: transaction controller does not implement DBExecutor")
	}

	transaction, err := s.transactions.GetByID(ctx, txExecutor, transactionID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUnknownTransaction
		}
		return nil, fmt.Errorf("settle: failed to load transaction %d: %w", transactionID, err)
	}
	if transaction.IsTerminal() {
		return nil, util.ErrAlreadySettled
	}

	now := time.Now().UTC()
	won, err := s.transactions.TransitionFromPending(ctx, txExecutor, transactionID, domain.TransactionStatusCompleted, nil, &now)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}
	if !won {
		return nil, util.ErrAlreadySettled
	}

	if err := s.applySettlementEffects(ctx, txExecutor, transaction, now); err != nil {
		return nil, err
	}

	transaction.Status = domain.TransactionStatusCompleted
	transaction.SettledAt = &now

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("settle: failed to commit transaction: %w", err)
	}

	return transaction, nil
}

// applySettlementEffects mutates balances for a transaction that just won
// the pending-to-completed transition. Any error here rolls the whole
// settlement back, status change included.
func (s *ledgerService) applySettlementEffects(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction, settledAt time.Time) error {
	ref := transaction.Reference
	unit := transaction.Currency.Unit()

	switch transaction.Type {
	case domain.TransactionTypeDeposit:
		return s.store.credit(ctx, q, transaction.UserID, unit, transaction.Amount, domain.LedgerCauseTransaction, ref)

	case domain.TransactionTypeWithdrawal:
		// The account is debited for the full requested amount. The net is
		// what the payout channel sends; the fee is retained revenue with
		// no account on the credit side.
		if err := s.store.debit(ctx, q, transaction.UserID, unit, transaction.Amount, domain.LedgerCauseTransaction, ref); err != nil {
			return err
		}
		fee, _ := domain.WithdrawalBreakdown(transaction.Amount)
		return s.store.retainFee(ctx, q, unit, fee, ref)

	case domain.TransactionTypeInvestment:
		plan, ok := domain.PlanByID(deref(transaction.PlanID))
		if !ok {
			return util.ErrUnknownPlan
		}
		account, err := s.accounts.GetByUserIDForUpdate(ctx, q, transaction.UserID)
		if err != nil {
			return fmt.Errorf("settle investment: failed to load account %d: %w", transaction.UserID, err)
		}
		firstInvestment := !account.IsInvestor
		if err := s.store.debit(ctx, q, transaction.UserID, unit, transaction.Amount, domain.LedgerCauseTransaction, ref); err != nil {
			return err
		}
		investment := domain.NewInvestment(transaction.UserID, plan, transaction.Amount, transaction.Currency, domain.DateOnly(settledAt))
		if err := s.investments.CreateInvestment(ctx, q, investment); err != nil {
			return fmt.Errorf("settle investment: failed to create investment: %w", err)
		}
		if err := s.store.markInvestor(ctx, q, transaction.UserID); err != nil {
			return err
		}
		if firstInvestment {
			if err := s.engine.FanOut(ctx, q, transaction.UserID, transaction.Amount, transaction.Currency, domain.CommissionKindReferral, ref); err != nil {
				return err
			}
		}
		return nil

	case domain.TransactionTypePointsPurchase:
		points, _ := domain.CurrencyToPoints(transaction.Amount)
		if err := s.store.debit(ctx, q, transaction.UserID, unit, transaction.Amount, domain.LedgerCauseTransaction, ref); err != nil {
			return err
		}
		return s.store.credit(ctx, q, transaction.UserID, domain.UnitPoints, points, domain.LedgerCauseTransaction, ref)

	case domain.TransactionTypePointsExchange:
		account, err := s.accounts.GetByUserIDForUpdate(ctx, q, transaction.UserID)
		if err != nil {
			return fmt.Errorf("settle points exchange: failed to load account %d: %w", transaction.UserID, err)
		}
		payout := domain.PointsToCurrency(transaction.Amount, account.IsInvestor, transaction.Currency)
		if err := s.store.debit(ctx, q, transaction.UserID, domain.UnitPoints, transaction.Amount, domain.LedgerCauseTransaction, ref); err != nil {
			return err
		}
		return s.store.credit(ctx, q, transaction.UserID, unit, payout, domain.LedgerCauseTransaction, ref)
	}

	return fmt.Errorf("settle: unhandled transaction type %q", transaction.Type)
}

// RejectTransaction moves a pending transaction to FAILED with the admin's
// reason. Funds never moved for a pending transaction, so no reversal is
// needed.
func (s *ledgerService) RejectTransaction(ctx context.Context, transactionID int64, reason string) (*domain.Transaction, error) {
	if reason == "" {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("reject: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("reject: transaction controller does not implement DBExecutor")
	}

	transaction, err := s.transactions.GetByID(ctx, txExecutor, transactionID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUnknownTransaction
		}
		return nil, fmt.Errorf("reject: failed to load transaction %d: %w", transactionID, err)
	}
	if transaction.IsTerminal() {
		return nil, util.ErrAlreadySettled
	}

	won, err := s.transactions.TransitionFromPending(ctx, txExecutor, transactionID, domain.TransactionStatusFailed, &reason, nil)
	if err != nil {
		return nil, fmt.Errorf("reject: %w", err)
	}
	if !won {
		return nil, util.ErrAlreadySettled
	}

	transaction.Status = domain.TransactionStatusFailed
	transaction.Reason = &reason

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("reject: failed to commit transaction: %w", err)
	}

	return transaction, nil
}

// CancelTransaction lets the owner withdraw a not-yet-reviewed request.
func (s *ledgerService) CancelTransaction(ctx context.Context, transactionID, requesterID int64) (*domain.Transaction, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("cancel: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("cancel: transaction controller does not implement DBExecutor")
	}

	transaction, err := s.transactions.GetByID(ctx, txExecutor, transactionID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUnknownTransaction
		}
		return nil, fmt.Errorf("cancel: failed to load transaction %d: %w", transactionID, err)
	}
	if transaction.UserID != requesterID {
		return nil, util.ErrUnknownTransaction
	}
	if transaction.IsTerminal() {
		return nil, util.ErrCannotCancel
	}

	won, err := s.transactions.TransitionFromPending(ctx, txExecutor, transactionID, domain.TransactionStatusCancelled, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("cancel: %w", err)
	}
	if !won {
		return nil, util.ErrCannotCancel
	}

	transaction.Status = domain.TransactionStatusCancelled

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("cancel: failed to commit transaction: %w", err)
	}

	return transaction, nil
}

// ExchangePoints converts points to currency at the investor-dependent rate.
// The conversion is internal, with no external money movement to review, so
// the points_exchange transaction settles in the same call.
func (s *ledgerService) ExchangePoints(ctx context.Context, userID, points int64, target domain.Currency) (*domain.Transaction, error) {
	if points <= 0 {
		return nil, util.ErrInvalidAmount
	}
	if points < domain.MinExchangePoints {
		return nil, util.ErrBelowMinimum
	}
	if !domain.ValidCurrency(target) {
		return nil, util.ErrInvalidCurrency
	}

	account, err := s.accounts.GetByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("exchange points: failed to load account %d: %w", userID, err)
	}
	if account.Points < points {
		return nil, util.ErrInsufficientPoints
	}

	transaction := domain.NewTransaction(userID, domain.TransactionTypePointsExchange, target, points)
	if err := s.persistPending(ctx, transaction); err != nil {
		return nil, err
	}

	return s.SettleTransaction(ctx, transaction.ID)
}

// GetAccountSnapshot retrieves a user's balances and investor status.
func (s *ledgerService) GetAccountSnapshot(ctx context.Context, userID int64) (*domain.Account, error) {
	account, err := s.accounts.GetByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account snapshot for user %d: %w", userID, err)
	}
	return account, nil
}

// GetTransactionHistory retrieves a paginated list of a user's transactions.
func (s *ledgerService) GetTransactionHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	if _, err := s.accounts.GetByUserID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, 0, util.ErrAccountNotFound
		}
		return nil, 0, fmt.Errorf("failed to check account existence: %w", err)
	}

	transactions, totalCount, err := s.transactions.ListByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}
	return transactions, totalCount, nil
}

// GetInvestments retrieves a user's investments, newest first.
func (s *ledgerService) GetInvestments(ctx context.Context, userID int64) ([]domain.Investment, error) {
	if _, err := s.accounts.GetByUserID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to check account existence: %w", err)
	}

	investments, err := s.investments.ListByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve investments: %w", err)
	}
	return investments, nil
}

// GetLedgerHistory retrieves a user's audit trail lines.
func (s *ledgerService) GetLedgerHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.LedgerEntry, error) {
	if _, err := s.accounts.GetByUserID(ctx, s.dbExecutor, userID); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to check account existence: %w", err)
	}

	entries, err := s.store.ledger.ListByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ledger history: %w", err)
	}
	return entries, nil
}

// ListPendingTransactions retrieves the admin approval queue.
func (s *ledgerService) ListPendingTransactions(ctx context.Context, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions, totalCount, err := s.transactions.ListPending(ctx, s.dbExecutor, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve pending transactions: %w", err)
	}
	return transactions, totalCount, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
