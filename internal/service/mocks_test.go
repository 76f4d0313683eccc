// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/repository"
	"arivo-ledger/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock transaction controller that also satisfies
// repository.DBExecutor by embedding MockDBExecutor, mirroring how *sqlx.Tx
// plays both roles in production.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// txFuncs returns begin/commit/rollback funcs bound to the given controller.
func txFuncs(controller *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	return func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return controller, nil
		},
		func(tx db.TxController) error {
			return controller.Commit()
		},
		func(tx db.TxController) {
			_ = controller.Rollback()
		}
}

// MockAccountRepository is a mock implementation of repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, q repository.DBExecutor, account *domain.Account) error {
	args := m.Called(ctx, q, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, q repository.DBExecutor, userID int64, currency domain.Currency, delta int64) error {
	args := m.Called(ctx, q, userID, currency, delta)
	return args.Error(0)
}

func (m *MockAccountRepository) AddPoints(ctx context.Context, q repository.DBExecutor, userID int64, delta int64) error {
	args := m.Called(ctx, q, userID, delta)
	return args.Error(0)
}

func (m *MockAccountRepository) MarkInvestor(ctx context.Context, q repository.DBExecutor, userID int64) error {
	args := m.Called(ctx, q, userID)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) TransitionFromPending(ctx context.Context, q repository.DBExecutor, id int64, to domain.TransactionStatus, reason *string, settledAt *time.Time) (bool, error) {
	args := m.Called(ctx, q, id, to, reason, settledAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) ListPending(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

// MockInvestmentRepository is a mock implementation of repository.InvestmentRepository.
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) CreateInvestment(ctx context.Context, q repository.DBExecutor, investment *domain.Investment) error {
	args := m.Called(ctx, q, investment)
	return args.Error(0)
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Investment, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ListAccruableIDs(ctx context.Context, q repository.DBExecutor, asOfDate time.Time) ([]int64, error) {
	args := m.Called(ctx, q, asOfDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockInvestmentRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Investment, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) ClaimAccrual(ctx context.Context, q repository.DBExecutor, id int64, asOfDate time.Time, accrual int64) (bool, error) {
	args := m.Called(ctx, q, id, asOfDate, accrual)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvestmentRepository) MarkCompleted(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

// MockReferralRepository is a mock implementation of repository.ReferralRepository.
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) CreateEdge(ctx context.Context, q repository.DBExecutor, edge *domain.ReferralEdge) error {
	args := m.Called(ctx, q, edge)
	return args.Error(0)
}

func (m *MockReferralRepository) GetParent(ctx context.Context, q repository.DBExecutor, childID int64) (*domain.ReferralEdge, error) {
	args := m.Called(ctx, q, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralEdge), args.Error(1)
}

// MockCommissionRepository is a mock implementation of repository.CommissionRepository.
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) InsertIfAbsent(ctx context.Context, q repository.DBExecutor, record *domain.CommissionRecord) (bool, error) {
	args := m.Called(ctx, q, record)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommissionRepository) ListByBeneficiary(ctx context.Context, q repository.DBExecutor, beneficiaryID int64, filter repository.CommissionFilter, limit, offset int) ([]domain.CommissionRecord, int64, error) {
	args := m.Called(ctx, q, beneficiaryID, filter, limit, offset)
	return args.Get(0).([]domain.CommissionRecord), args.Get(1).(int64), args.Error(2)
}

// MockLedgerRepository is a mock implementation of repository.LedgerRepository.
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, q repository.DBExecutor, entry *domain.LedgerEntry) error {
	args := m.Called(ctx, q, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockCommissionEngine is a mock implementation of CommissionEngine.
type MockCommissionEngine struct {
	mock.Mock
}

func (m *MockCommissionEngine) FanOut(ctx context.Context, q repository.DBExecutor, sourceUserID, baseAmount int64, currency domain.Currency, kind domain.CommissionKind, causingEventID string) error {
	args := m.Called(ctx, q, sourceUserID, baseAmount, currency, kind, causingEventID)
	return args.Error(0)
}

func (m *MockCommissionEngine) GetCommissionHistory(ctx context.Context, beneficiaryID int64, filter repository.CommissionFilter, limit, offset int) ([]domain.CommissionRecord, int64, error) {
	args := m.Called(ctx, beneficiaryID, filter, limit, offset)
	return args.Get(0).([]domain.CommissionRecord), args.Get(1).(int64), args.Error(2)
}
