package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"universe-backend/domain/core/valueobjects"
)

func mustAmount(t *testing.T, coins int64) valueobjects.Amount {
	t.Helper()
	amount, err := valueobjects.NewAmount(coins)
	require.NoError(t, err)
	return amount
}

func TestNewTransaction(t *testing.T) {
	t.Run("records the movement", func(t *testing.T) {
		tx, err := NewTransaction("tx-1", "p1", "p2", mustAmount(t, 30), KindTransfer)
		require.NoError(t, err)

		assert.Equal(t, "tx-1", tx.ID())
		assert.Equal(t, "p1", tx.SenderID())
		assert.Equal(t, "p2", tx.RecipientID())
		assert.Equal(t, int64(30), tx.Amount().Coins())
		assert.Equal(t, KindTransfer, tx.Kind())
		assert.False(t, tx.Timestamp().IsZero())
	})

	t.Run("generates an ID when none is supplied", func(t *testing.T) {
		tx, err := NewTransaction("", "p1", "p2", mustAmount(t, 5), KindTip)
		require.NoError(t, err)
		assert.NotEmpty(t, tx.ID())
	})

	t.Run("requires both parties", func(t *testing.T) {
		_, err := NewTransaction("tx-1", "", "p2", mustAmount(t, 5), KindTransfer)
		assert.Error(t, err)

		_, err = NewTransaction("tx-1", "p1", "", mustAmount(t, 5), KindTransfer)
		assert.Error(t, err)
	})

	t.Run("rejects a zero amount", func(t *testing.T) {
		_, err := NewTransaction("tx-1", "p1", "p2", valueobjects.Amount{}, KindTransfer)
		assert.Error(t, err)
	})
}

func TestReconstructTransaction(t *testing.T) {
	original, err := NewTransaction("tx-1", "p1", "p2", mustAmount(t, 30), KindTip)
	require.NoError(t, err)

	restored, err := ReconstructTransaction(
		original.ID(), original.SenderID(), original.RecipientID(),
		original.Amount(), original.Kind(), original.Timestamp(),
	)
	require.NoError(t, err)
	assert.Equal(t, original.ID(), restored.ID())
	assert.Equal(t, KindTip, restored.Kind())
	assert.True(t, original.Timestamp().Equal(restored.Timestamp()))

	_, err = ReconstructTransaction("", "p1", "p2", original.Amount(), KindTip, original.Timestamp())
	assert.Error(t, err, "a persisted record always has an ID")
}
