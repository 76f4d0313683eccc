// internal/domain/points.go
package domain

// Points conversion rates. The FAQ-documented rates are canonical:
// 100 Ar per point for investors, 10 Ar per point otherwise, points always
// purchased at 100 Ar per point regardless of investor status.
const (
	// PointExchangeRateInvestor is the ariary value of one point on
	// exchange for users holding investor status.
	PointExchangeRateInvestor int64 = 100
	// PointExchangeRateStandard is the ariary value of one point on
	// exchange for everyone else.
	PointExchangeRateStandard int64 = 10
	// PointPurchaseRate is the ariary cost of one point on purchase,
	// independent of investor status.
	PointPurchaseRate int64 = 100
	// MinExchangePoints is the smallest point count accepted by an
	// exchange request.
	MinExchangePoints int64 = 20

	// FiatPerToken is the fixed ariary value of one whole stable token.
	FiatPerToken int64 = 5000
	// TokenScale is the number of token minor units per whole token.
	TokenScale int64 = 100
)

// ExchangeRate returns the ariary value of one point for the given
// investor status.
func ExchangeRate(isInvestor bool) int64 {
	if isInvestor {
		return PointExchangeRateInvestor
	}
	return PointExchangeRateStandard
}

// PointsToCurrency converts a point count to an amount of the target
// currency, in minor units, at the investor-dependent exchange rate.
// The conversion is linear in points; token payouts are floored to the
// nearest minor unit.
func PointsToCurrency(points int64, isInvestor bool, target Currency) int64 {
	fiat := points * ExchangeRate(isInvestor)
	if target == CurrencyUSDT {
		return TokenFromFiat(fiat)
	}
	return fiat
}

// CurrencyToPoints converts an MGA amount to the points it buys at the
// fixed purchase rate. Purchases are fiat-only; the amount must be an
// exact multiple of PointPurchaseRate so no residue is silently kept.
func CurrencyToPoints(fiatAmount int64) (points int64, exact bool) {
	return fiatAmount / PointPurchaseRate, fiatAmount%PointPurchaseRate == 0
}

// TokenFromFiat converts whole ariary to token minor units at the fixed
// 5000:1 rate, flooring.
func TokenFromFiat(fiat int64) int64 {
	return fiat * TokenScale / FiatPerToken
}

// FiatEquivalent converts a minor-unit amount of any currency to whole
// ariary, for comparisons against fiat-denominated minimums.
func FiatEquivalent(amount int64, c Currency) int64 {
	if c == CurrencyUSDT {
		return amount * FiatPerToken / TokenScale
	}
	return amount
}
