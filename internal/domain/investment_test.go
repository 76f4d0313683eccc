// internal/domain/investment_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyAccrual(t *testing.T) {
	plan, ok := PlanByID("starter")
	require.True(t, ok)

	inv := NewInvestment(1, plan, 100_000, CurrencyMGA, DateOnly(time.Now()))
	assert.Equal(t, int64(2_000), inv.DailyAccrual())
}

func TestMaturedBy(t *testing.T) {
	plan, ok := PlanByID("starter")
	require.True(t, ok)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := NewInvestment(1, plan, 100_000, CurrencyMGA, start)

	assert.False(t, inv.MaturedBy(start.AddDate(0, 0, 29), plan.DurationDays))
	assert.True(t, inv.MaturedBy(start.AddDate(0, 0, 30), plan.DurationDays))
}

func TestWithdrawalBreakdown(t *testing.T) {
	fee, net := WithdrawalBreakdown(50_000)
	assert.Equal(t, int64(5_000), fee)
	assert.Equal(t, int64(45_000), net)
	assert.Equal(t, int64(50_000), fee+net, "fee and net must sum to the requested amount")

	// Odd amounts floor the fee; the remainder stays with the user payout.
	fee, net = WithdrawalBreakdown(999)
	assert.Equal(t, int64(99), fee)
	assert.Equal(t, int64(900), net)
}

func TestPlanCatalog(t *testing.T) {
	assert.Len(t, Plans(), 3)
	_, ok := PlanByID("no-such-plan")
	assert.False(t, ok)
}
