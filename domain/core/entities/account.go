package entities

import (
	"time"

	pkgerrors "universe-backend/pkg/errors"
)

const (
	// StartingCoins is granted to every newly registered account
	StartingCoins int64 = 100

	// StartingLevel is the level assigned at registration
	StartingLevel = 1
)

// Account is the entity representing a principal holding a coin balance.
// The identity provider owns authentication; this entity only carries the
// spendable value and profile attributes the world cares about.
type Account struct {
	id        string
	username  string
	coins     int64
	level     int
	bio       string
	createdAt time.Time
	updatedAt time.Time
}

// NewAccount creates a new account with the registration defaults
func NewAccount(id, username string) (*Account, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("account ID cannot be empty")
	}
	if username == "" {
		return nil, pkgerrors.NewValidationError("username cannot be empty")
	}

	now := time.Now()
	return &Account{
		id:        id,
		username:  username,
		coins:     StartingCoins,
		level:     StartingLevel,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructAccount reconstructs an account from repository data with
// preserved timestamps and balance
func ReconstructAccount(id, username string, coins int64, level int, bio string, createdAt, updatedAt time.Time) (*Account, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("account ID cannot be empty")
	}
	if username == "" {
		return nil, pkgerrors.NewValidationError("username cannot be empty")
	}
	if coins < 0 {
		return nil, pkgerrors.NewValidationError("account balance cannot be negative")
	}

	return &Account{
		id:        id,
		username:  username,
		coins:     coins,
		level:     level,
		bio:       bio,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// ID returns the account's unique identifier
func (a *Account) ID() string {
	return a.id
}

// Username returns the unique display name
func (a *Account) Username() string {
	return a.username
}

// Coins returns the current coin balance
func (a *Account) Coins() int64 {
	return a.coins
}

// Level returns the informational level
func (a *Account) Level() int {
	return a.level
}

// Bio returns the profile text
func (a *Account) Bio() string {
	return a.bio
}

// SetBio updates the profile text
func (a *Account) SetBio(bio string) {
	a.bio = bio
	a.updatedAt = time.Now()
}

// CanAfford reports whether the balance covers the given amount
func (a *Account) CanAfford(amount int64) bool {
	return a.coins >= amount
}

// AdjustBalance applies a signed delta to the balance. It fails closed when
// the resulting balance would be negative, leaving the account unchanged.
// Only the ledger repositories call this; no other component writes coins.
func (a *Account) AdjustBalance(delta int64) error {
	next := a.coins + delta
	if next < 0 {
		return pkgerrors.NewInsufficientFundsError(a.coins, -delta)
	}
	a.coins = next
	a.updatedAt = time.Now()
	return nil
}

// CreatedAt returns when the account was created
func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the account was last updated
func (a *Account) UpdatedAt() time.Time {
	return a.updatedAt
}
