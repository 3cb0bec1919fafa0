package commands

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"universe-backend/domain/core/entities"
	"universe-backend/infrastructure/messaging"
	"universe-backend/infrastructure/persistence/memory"
	pkgerrors "universe-backend/pkg/errors"
)

type ledgerTestEnv struct {
	accounts *memory.AccountRepository
	ledger   *memory.LedgerRepository
	handler  *TransferCoinsHandler
}

func setupLedgerTest(t *testing.T) *ledgerTestEnv {
	t.Helper()

	accounts := memory.NewAccountRepository()
	ledger := memory.NewLedgerRepository(accounts)
	publisher := messaging.NewNopPublisher(zap.NewNop())

	return &ledgerTestEnv{
		accounts: accounts,
		ledger:   ledger,
		handler:  NewTransferCoinsHandler(accounts, ledger, publisher, zap.NewNop()),
	}
}

func (env *ledgerTestEnv) seedAccount(t *testing.T, id, username string, coins int64) {
	t.Helper()

	account, err := entities.NewAccount(id, username)
	require.NoError(t, err)
	require.NoError(t, env.accounts.Save(context.Background(), account))

	if coins != entities.StartingCoins {
		require.NoError(t, account.AdjustBalance(coins-entities.StartingCoins))
		require.NoError(t, env.accounts.Save(context.Background(), account))
	}
}

func (env *ledgerTestEnv) balance(t *testing.T, id string) int64 {
	t.Helper()

	account, err := env.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return account.Coins()
}

func transferCmd(senderID, recipientUsername string, amount int64) TransferCoinsCommand {
	return TransferCoinsCommand{
		TransactionID:     uuid.New().String(),
		SenderID:          senderID,
		RecipientUsername: recipientUsername,
		Amount:            amount,
	}
}

func TestTransferCoins(t *testing.T) {
	ctx := context.Background()

	t.Run("moves coins and appends the record", func(t *testing.T) {
		env := setupLedgerTest(t)
		env.seedAccount(t, "p1", "alice", 100)
		env.seedAccount(t, "p2", "bob", 50)

		tx, err := env.handler.Handle(ctx, transferCmd("p1", "bob", 30))
		require.NoError(t, err)

		assert.Equal(t, int64(70), env.balance(t, "p1"))
		assert.Equal(t, int64(80), env.balance(t, "p2"))
		assert.Equal(t, entities.KindTransfer, tx.Kind())

		history, err := env.ledger.GetByAccount(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, tx.ID(), history[0].ID())
	})

	t.Run("rejects an overdraft and leaves everything untouched", func(t *testing.T) {
		env := setupLedgerTest(t)
		env.seedAccount(t, "p1", "alice", 100)
		env.seedAccount(t, "p2", "bob", 50)

		_, err := env.handler.Handle(ctx, transferCmd("p1", "bob", 30))
		require.NoError(t, err)

		_, err = env.handler.Handle(ctx, transferCmd("p1", "bob", 1000))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsInsufficientFunds(err))

		assert.Equal(t, int64(70), env.balance(t, "p1"))
		assert.Equal(t, int64(80), env.balance(t, "p2"))

		history, err := env.ledger.GetByAccount(ctx, "p1")
		require.NoError(t, err)
		assert.Len(t, history, 1, "a rejected movement must not append a record")
	})

	t.Run("conserves the total supply", func(t *testing.T) {
		env := setupLedgerTest(t)
		env.seedAccount(t, "p1", "alice", 100)
		env.seedAccount(t, "p2", "bob", 50)

		for _, amount := range []int64{10, 25, 5} {
			_, err := env.handler.Handle(ctx, transferCmd("p1", "bob", amount))
			require.NoError(t, err)
		}

		assert.Equal(t, int64(150), env.balance(t, "p1")+env.balance(t, "p2"))
	})

	t.Run("rejects self transfer", func(t *testing.T) {
		env := setupLedgerTest(t)
		env.seedAccount(t, "p1", "alice", 100)

		_, err := env.handler.Handle(ctx, transferCmd("p1", "alice", 10))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsSelfPayment(err))
		assert.Equal(t, int64(100), env.balance(t, "p1"))
	})

	t.Run("rejects non positive amounts", func(t *testing.T) {
		env := setupLedgerTest(t)
		env.seedAccount(t, "p1", "alice", 100)
		env.seedAccount(t, "p2", "bob", 50)

		for _, amount := range []int64{0, -10} {
			_, err := env.handler.Handle(ctx, transferCmd("p1", "bob", amount))
			require.Error(t, err)
			assert.True(t, pkgerrors.IsInvalidAmount(err))
		}
	})

	t.Run("fails when the recipient does not exist", func(t *testing.T) {
		env := setupLedgerTest(t)
		env.seedAccount(t, "p1", "alice", 100)

		_, err := env.handler.Handle(ctx, transferCmd("p1", "nobody", 10))
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestTransferCoinsConcurrentDebitRace(t *testing.T) {
	ctx := context.Background()
	env := setupLedgerTest(t)
	env.seedAccount(t, "p1", "alice", 100)
	env.seedAccount(t, "p2", "bob", 100)

	// two simultaneous debits of 60 against a balance of 100: only one fits
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.handler.Handle(ctx, transferCmd("p1", "bob", 60))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, pkgerrors.IsInsufficientFunds(err))
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one of the competing debits may commit")
	assert.Equal(t, int64(40), env.balance(t, "p1"))
	assert.Equal(t, int64(160), env.balance(t, "p2"))
}

func TestTransferCoinsConcurrent(t *testing.T) {
	ctx := context.Background()
	env := setupLedgerTest(t)
	env.seedAccount(t, "p1", "alice", 100)
	env.seedAccount(t, "p2", "bob", 50)

	// 20 concurrent attempts of 10 coins against a balance of 100: exactly
	// 10 can commit, never more
	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.handler.Handle(ctx, transferCmd("p1", "bob", 10))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, pkgerrors.IsInsufficientFunds(err))
		}
	}

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, int64(0), env.balance(t, "p1"))
	assert.Equal(t, int64(150), env.balance(t, "p2"))

	history, err := env.ledger.GetByAccount(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, history, 10, "the ledger must record exactly the committed movements")
}

// failingLedger rejects every movement with a storage error
type failingLedger struct{}

func (failingLedger) ApplyTransfer(ctx context.Context, tx *entities.Transaction) error {
	return pkgerrors.NewStorageError("apply transfer", context.DeadlineExceeded)
}

func (failingLedger) GetByAccount(ctx context.Context, accountID string) ([]*entities.Transaction, error) {
	return nil, nil
}

func (failingLedger) GetByID(ctx context.Context, id string) (*entities.Transaction, error) {
	return nil, pkgerrors.NewNotFoundError("transaction")
}

func TestTransferCoinsStorageFailure(t *testing.T) {
	ctx := context.Background()
	env := setupLedgerTest(t)
	env.seedAccount(t, "p1", "alice", 100)
	env.seedAccount(t, "p2", "bob", 50)

	handler := NewTransferCoinsHandler(env.accounts, failingLedger{}, messaging.NewNopPublisher(zap.NewNop()), zap.NewNop())

	_, err := handler.Handle(ctx, transferCmd("p1", "bob", 30))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsStorage(err))

	assert.Equal(t, int64(100), env.balance(t, "p1"), "a failed apply must leave the sender untouched")
	assert.Equal(t, int64(50), env.balance(t, "p2"), "a failed apply must leave the recipient untouched")
}
