// internal/domain/points_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsToCurrencyRates(t *testing.T) {
	// Non-investors exchange at 10 Ar per point, investors at 100 Ar.
	assert.Equal(t, int64(500), PointsToCurrency(50, false, CurrencyMGA))
	assert.Equal(t, int64(5_000), PointsToCurrency(50, true, CurrencyMGA))
}

func TestPointsToCurrencyToken(t *testing.T) {
	// 50 points as investor = 5,000 Ar = exactly one token = 100 minor units.
	assert.Equal(t, int64(100), PointsToCurrency(50, true, CurrencyUSDT))
	// 20 points as non-investor = 200 Ar = 0.04 tokens, floored to minor units.
	assert.Equal(t, int64(4), PointsToCurrency(20, false, CurrencyUSDT))
}

func TestPointsToCurrencyLinear(t *testing.T) {
	for _, investor := range []bool{false, true} {
		rate := ExchangeRate(investor)
		var prev int64 = -1
		for p := int64(1); p <= 1000; p += 7 {
			got := PointsToCurrency(p, investor, CurrencyMGA)
			assert.Equal(t, p*rate, got, "payout must be linear in points")
			assert.Greater(t, got, prev, "payout must be monotonic in points")
			prev = got
		}
	}
}

func TestCurrencyToPoints(t *testing.T) {
	points, exact := CurrencyToPoints(2_000)
	assert.True(t, exact)
	assert.Equal(t, int64(20), points)

	_, exact = CurrencyToPoints(2_050)
	assert.False(t, exact, "non-multiples of the purchase rate leave a residue")
}

func TestPurchaseExchangeAsymmetry(t *testing.T) {
	// Buying points and exchanging them back is lossy for non-investors
	// (100 Ar in, 10 Ar out per point) and break-even for investors.
	points, _ := CurrencyToPoints(10_000)
	assert.Equal(t, int64(1_000), PointsToCurrency(points, false, CurrencyMGA))
	assert.Equal(t, int64(10_000), PointsToCurrency(points, true, CurrencyMGA))
}

func TestFiatEquivalent(t *testing.T) {
	assert.Equal(t, int64(75_000), FiatEquivalent(75_000, CurrencyMGA))
	// 150 token minor units = 1.5 USDT = 7,500 Ar.
	assert.Equal(t, int64(7_500), FiatEquivalent(150, CurrencyUSDT))
}
