// internal/service/commission_service_test.go
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"arivo-ledger/internal/domain"
	"arivo-ledger/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type commissionFixture struct {
	referrals   *MockReferralRepository
	commissions *MockCommissionRepository
	accounts    *MockAccountRepository
	ledger      *MockLedgerRepository
	dbExecutor  *MockDBExecutor
	engine      CommissionEngine
}

func newCommissionFixture() *commissionFixture {
	f := &commissionFixture{
		referrals:   new(MockReferralRepository),
		commissions: new(MockCommissionRepository),
		accounts:    new(MockAccountRepository),
		ledger:      new(MockLedgerRepository),
		dbExecutor:  new(MockDBExecutor),
	}
	f.engine = NewCommissionEngine(
		f.dbExecutor,
		f.referrals,
		f.commissions,
		f.accounts,
		f.ledger,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *commissionFixture) assertExpectations(t *testing.T) {
	mock.AssertExpectationsForObjects(t, f.referrals, f.commissions, f.accounts, f.ledger)
}

// expectLevel wires one paid commission level: the record insert, the
// beneficiary credit, and its audit line.
func (f *commissionFixture) expectLevel(ctx context.Context, beneficiaryID int64, kind domain.CommissionKind, level int, amount int64, eventID string) {
	f.commissions.On("InsertIfAbsent", ctx, mock.Anything, mock.MatchedBy(func(r *domain.CommissionRecord) bool {
		return r.BeneficiaryID == beneficiaryID && r.Kind == kind && r.Level == level &&
			r.Amount == amount && r.CausingEventID == eventID
	})).Return(true, nil).Once()
	f.accounts.On("AddBalance", ctx, mock.Anything, beneficiaryID, domain.CurrencyMGA, amount).Return(nil).Once()
	f.ledger.On("Append", ctx, mock.Anything, mock.MatchedBy(func(e *domain.LedgerEntry) bool {
		return e.UserID != nil && *e.UserID == beneficiaryID &&
			e.Delta == amount && e.CauseType == domain.LedgerCauseCommission
	})).Return(nil).Once()
}

func TestFanOut(t *testing.T) {
	ctx := context.Background()
	sourceID := int64(1)
	eventID := "evt-1"

	t.Run("ReferralPaysThreeLevels", func(t *testing.T) {
		f := newCommissionFixture()
		q := new(MockDBExecutor)

		// Chain: 1 -> 2 -> 3 -> 4.
		f.referrals.On("GetParent", ctx, q, int64(1)).Return(&domain.ReferralEdge{ChildID: 1, ParentID: 2}, nil).Once()
		f.referrals.On("GetParent", ctx, q, int64(2)).Return(&domain.ReferralEdge{ChildID: 2, ParentID: 3}, nil).Once()
		f.referrals.On("GetParent", ctx, q, int64(3)).Return(&domain.ReferralEdge{ChildID: 3, ParentID: 4}, nil).Once()

		f.expectLevel(ctx, 2, domain.CommissionKindReferral, 1, 10_000, eventID)
		f.expectLevel(ctx, 3, domain.CommissionKindReferral, 2, 6_000, eventID)
		f.expectLevel(ctx, 4, domain.CommissionKindReferral, 3, 3_000, eventID)

		err := f.engine.FanOut(ctx, q, sourceID, 100_000, domain.CurrencyMGA, domain.CommissionKindReferral, eventID)

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("TeamRatesOnAccrualBase", func(t *testing.T) {
		f := newCommissionFixture()
		q := new(MockDBExecutor)

		f.referrals.On("GetParent", ctx, q, int64(1)).Return(&domain.ReferralEdge{ChildID: 1, ParentID: 2}, nil).Once()
		f.referrals.On("GetParent", ctx, q, int64(2)).Return(&domain.ReferralEdge{ChildID: 2, ParentID: 3}, nil).Once()
		f.referrals.On("GetParent", ctx, q, int64(3)).Return(&domain.ReferralEdge{ChildID: 3, ParentID: 4}, nil).Once()

		f.expectLevel(ctx, 2, domain.CommissionKindTeam, 1, 120, eventID)
		f.expectLevel(ctx, 3, domain.CommissionKindTeam, 2, 60, eventID)
		f.expectLevel(ctx, 4, domain.CommissionKindTeam, 3, 20, eventID)

		err := f.engine.FanOut(ctx, q, sourceID, 2_000, domain.CurrencyMGA, domain.CommissionKindTeam, eventID)

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("ShortChainStopsSilently", func(t *testing.T) {
		f := newCommissionFixture()
		q := new(MockDBExecutor)

		f.referrals.On("GetParent", ctx, q, int64(1)).Return(&domain.ReferralEdge{ChildID: 1, ParentID: 2}, nil).Once()
		f.referrals.On("GetParent", ctx, q, int64(2)).Return(nil, util.ErrNotFound).Once()

		f.expectLevel(ctx, 2, domain.CommissionKindReferral, 1, 10_000, eventID)

		err := f.engine.FanOut(ctx, q, sourceID, 100_000, domain.CurrencyMGA, domain.CommissionKindReferral, eventID)

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("NoReferrerPaysNothing", func(t *testing.T) {
		f := newCommissionFixture()
		q := new(MockDBExecutor)

		f.referrals.On("GetParent", ctx, q, int64(1)).Return(nil, util.ErrNotFound).Once()

		err := f.engine.FanOut(ctx, q, sourceID, 100_000, domain.CurrencyMGA, domain.CommissionKindReferral, eventID)

		assert.NoError(t, err)
		f.commissions.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("DuplicateEventSkipsPayout", func(t *testing.T) {
		f := newCommissionFixture()
		q := new(MockDBExecutor)

		f.referrals.On("GetParent", ctx, q, int64(1)).Return(&domain.ReferralEdge{ChildID: 1, ParentID: 2}, nil).Once()
		f.referrals.On("GetParent", ctx, q, int64(2)).Return(nil, util.ErrNotFound).Once()
		f.commissions.On("InsertIfAbsent", ctx, mock.Anything, mock.AnythingOfType("*domain.CommissionRecord")).
			Return(false, nil).Once()

		err := f.engine.FanOut(ctx, q, sourceID, 100_000, domain.CurrencyMGA, domain.CommissionKindReferral, eventID)

		assert.NoError(t, err)
		f.accounts.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("TinyBaseSkipsZeroAmounts", func(t *testing.T) {
		// 5 units at 10% floors to 0, so no record and no credit at any level.
		f := newCommissionFixture()
		q := new(MockDBExecutor)

		f.referrals.On("GetParent", ctx, q, int64(1)).Return(&domain.ReferralEdge{ChildID: 1, ParentID: 2}, nil).Once()
		f.referrals.On("GetParent", ctx, q, int64(2)).Return(nil, util.ErrNotFound).Once()

		err := f.engine.FanOut(ctx, q, sourceID, 5, domain.CurrencyMGA, domain.CommissionKindReferral, eventID)

		assert.NoError(t, err)
		f.commissions.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("RepositoryErrorPropagates", func(t *testing.T) {
		f := newCommissionFixture()
		q := new(MockDBExecutor)
		dbErr := errors.New("connection reset")

		f.referrals.On("GetParent", ctx, q, int64(1)).Return(nil, dbErr).Once()

		err := f.engine.FanOut(ctx, q, sourceID, 100_000, domain.CurrencyMGA, domain.CommissionKindReferral, eventID)

		assert.ErrorIs(t, err, dbErr)
		f.assertExpectations(t)
	})
}
