package valueobjects

import (
	pkgerrors "universe-backend/pkg/errors"
)

// Amount is a value object for a number of coins moved by the ledger.
// An Amount is always strictly positive; the zero value is invalid and
// only obtainable by bypassing the constructor.
type Amount struct {
	coins int64
}

// NewAmount creates an Amount, rejecting non-positive values. The form layer
// already enforces a minimum of 1 but the ledger never relies on it.
func NewAmount(coins int64) (Amount, error) {
	if coins <= 0 {
		return Amount{}, pkgerrors.NewInvalidAmountError(coins)
	}
	return Amount{coins: coins}, nil
}

// Coins returns the amount as a plain integer
func (a Amount) Coins() int64 {
	return a.coins
}

// IsZero checks if the Amount is the (invalid) zero value
func (a Amount) IsZero() bool {
	return a.coins == 0
}

// Equals checks if two Amounts are equal
func (a Amount) Equals(other Amount) bool {
	return a.coins == other.coins
}
