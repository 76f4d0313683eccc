// internal/domain/commission_test.go
package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCommissionRateTables(t *testing.T) {
	cases := []struct {
		kind  CommissionKind
		level int
		want  string
	}{
		{CommissionKindReferral, 1, "0.1"},
		{CommissionKindReferral, 2, "0.06"},
		{CommissionKindReferral, 3, "0.03"},
		{CommissionKindTeam, 1, "0.06"},
		{CommissionKindTeam, 2, "0.03"},
		{CommissionKindTeam, 3, "0.01"},
	}
	for _, c := range cases {
		rate, ok := CommissionRate(c.kind, c.level)
		assert.True(t, ok)
		assert.Equal(t, c.want, rate.String(), "kind=%s level=%d", c.kind, c.level)
	}
}

func TestCommissionRateOutOfRange(t *testing.T) {
	_, ok := CommissionRate(CommissionKindReferral, 0)
	assert.False(t, ok)
	_, ok = CommissionRate(CommissionKindReferral, 4)
	assert.False(t, ok)
}

func TestCommissionAmount(t *testing.T) {
	// Investing 100,000 pays 10,000 / 6,000 / 3,000 to levels 1-3.
	for level, want := range map[int]int64{1: 10_000, 2: 6_000, 3: 3_000} {
		rate, _ := CommissionRate(CommissionKindReferral, level)
		assert.Equal(t, want, CommissionAmount(100_000, rate))
	}
}

func TestCommissionAmountFloors(t *testing.T) {
	assert.Equal(t, int64(0), CommissionAmount(5, decimal.NewFromFloat(0.01)))
	assert.Equal(t, int64(1), CommissionAmount(150, decimal.NewFromFloat(0.01)))
}
