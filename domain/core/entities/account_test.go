package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "universe-backend/pkg/errors"
)

func TestNewAccount(t *testing.T) {
	t.Run("grants registration defaults", func(t *testing.T) {
		account, err := NewAccount("acct-1", "ada")
		require.NoError(t, err)

		assert.Equal(t, "acct-1", account.ID())
		assert.Equal(t, "ada", account.Username())
		assert.Equal(t, StartingCoins, account.Coins())
		assert.Equal(t, StartingLevel, account.Level())
	})

	t.Run("rejects missing identity", func(t *testing.T) {
		_, err := NewAccount("", "ada")
		assert.Error(t, err)

		_, err = NewAccount("acct-1", "")
		assert.Error(t, err)
	})
}

func TestAccountAdjustBalance(t *testing.T) {
	t.Run("applies credit and debit", func(t *testing.T) {
		account, err := NewAccount("acct-1", "ada")
		require.NoError(t, err)

		require.NoError(t, account.AdjustBalance(50))
		assert.Equal(t, int64(150), account.Coins())

		require.NoError(t, account.AdjustBalance(-150))
		assert.Equal(t, int64(0), account.Coins())
	})

	t.Run("fails closed on overdraft", func(t *testing.T) {
		account, err := NewAccount("acct-1", "ada")
		require.NoError(t, err)

		err = account.AdjustBalance(-101)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsInsufficientFunds(err))
		assert.Equal(t, StartingCoins, account.Coins(), "balance must be untouched after a rejected debit")
	})
}

func TestAccountCanAfford(t *testing.T) {
	account, err := NewAccount("acct-1", "ada")
	require.NoError(t, err)

	assert.True(t, account.CanAfford(100))
	assert.False(t, account.CanAfford(101))
}

func TestReconstructAccount(t *testing.T) {
	account, err := NewAccount("acct-1", "ada")
	require.NoError(t, err)

	copied, err := ReconstructAccount(
		account.ID(), account.Username(), 42, 3, "hello",
		account.CreatedAt(), account.UpdatedAt(),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(42), copied.Coins())
	assert.Equal(t, 3, copied.Level())
	assert.Equal(t, "hello", copied.Bio())

	_, err = ReconstructAccount("acct-1", "ada", -1, 1, "", account.CreatedAt(), account.UpdatedAt())
	assert.Error(t, err, "negative persisted balance must be rejected")
}
