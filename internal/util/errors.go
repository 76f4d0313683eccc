// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input provided")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidCurrency    = errors.New("unsupported currency")
	ErrBelowMinimum       = errors.New("amount below the required minimum")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrAlreadySettled     = errors.New("transaction already settled")
	ErrCannotCancel       = errors.New("transaction can no longer be cancelled")
	ErrUnknownTransaction = errors.New("unknown transaction")
	ErrUnknownPlan        = errors.New("unknown investment plan")
	ErrCyclicReferral     = errors.New("referral edge would create a cycle")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateEntry     = errors.New("duplicate entry") // e.g. a second referral edge for the same user
	// Add more specific errors as needed
)

// IsError reports whether err wraps target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
