// internal/domain/fee.go
package domain

import "github.com/shopspring/decimal"

// WithdrawalFeeRate is the platform's cut of every withdrawal.
var WithdrawalFeeRate = decimal.NewFromFloat(0.10)

// WithdrawalBreakdown splits a requested withdrawal amount into the retained
// fee and the net sent to the payout channel. The account is always debited
// for the full requested amount; fee + net == amount.
func WithdrawalBreakdown(amount int64) (fee, net int64) {
	fee = decimal.NewFromInt(amount).Mul(WithdrawalFeeRate).IntPart()
	return fee, amount - fee
}
