package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"universe-backend/domain/core/entities"
	"universe-backend/domain/core/valueobjects"
	pkgerrors "universe-backend/pkg/errors"
)

func saveAccount(t *testing.T, repo *AccountRepository, id, username string) *entities.Account {
	t.Helper()

	account, err := entities.NewAccount(id, username)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), account))
	return account
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips by ID and username", func(t *testing.T) {
		repo := NewAccountRepository()
		saveAccount(t, repo, "p1", "alice")

		byID, err := repo.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username())

		byName, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "p1", byName.ID())

		exists, err := repo.Exists(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("returns not found for unknown accounts", func(t *testing.T) {
		repo := NewAccountRepository()

		_, err := repo.GetByID(ctx, "ghost")
		assert.True(t, pkgerrors.IsNotFound(err))

		_, err = repo.GetByUsername(ctx, "ghost")
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("hands out isolated copies", func(t *testing.T) {
		repo := NewAccountRepository()
		saveAccount(t, repo, "p1", "alice")

		loaded, err := repo.GetByID(ctx, "p1")
		require.NoError(t, err)
		require.NoError(t, loaded.AdjustBalance(-100))

		fresh, err := repo.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, entities.StartingCoins, fresh.Coins(), "mutating a loaded copy must not touch the store")
	})

	t.Run("reindexes a renamed account", func(t *testing.T) {
		repo := NewAccountRepository()
		first := saveAccount(t, repo, "p1", "alice")

		renamed, err := entities.ReconstructAccount(
			first.ID(), "alicia", first.Coins(), first.Level(), first.Bio(),
			first.CreatedAt(), first.UpdatedAt(),
		)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, renamed))

		_, err = repo.GetByUsername(ctx, "alice")
		assert.True(t, pkgerrors.IsNotFound(err))

		byName, err := repo.GetByUsername(ctx, "alicia")
		require.NoError(t, err)
		assert.Equal(t, "p1", byName.ID())
	})

	t.Run("rejects a save claiming another account's username", func(t *testing.T) {
		repo := NewAccountRepository()
		saveAccount(t, repo, "p1", "alice")

		impostor, err := entities.NewAccount("p2", "alice")
		require.NoError(t, err)

		err = repo.Save(ctx, impostor)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsConflict(err))

		byName, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "p1", byName.ID(), "the original owner keeps the name")

		_, err = repo.GetByID(ctx, "p2")
		assert.True(t, pkgerrors.IsNotFound(err), "a rejected save must not persist the account")
	})
}

func makeTransfer(t *testing.T, id, senderID, recipientID string, coins int64) *entities.Transaction {
	t.Helper()

	amount, err := valueobjects.NewAmount(coins)
	require.NoError(t, err)
	tx, err := entities.NewTransaction(id, senderID, recipientID, amount, entities.KindTransfer)
	require.NoError(t, err)
	return tx
}

func TestLedgerRepositoryApplyTransfer(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*AccountRepository, *LedgerRepository) {
		accounts := NewAccountRepository()
		saveAccount(t, accounts, "p1", "alice")
		saveAccount(t, accounts, "p2", "bob")
		return accounts, NewLedgerRepository(accounts)
	}

	balance := func(t *testing.T, accounts *AccountRepository, id string) int64 {
		t.Helper()
		account, err := accounts.GetByID(ctx, id)
		require.NoError(t, err)
		return account.Coins()
	}

	t.Run("commits the debit, the credit and the record together", func(t *testing.T) {
		accounts, ledger := setup(t)

		tx := makeTransfer(t, "11111111-1111-1111-1111-111111111111", "p1", "p2", 30)
		require.NoError(t, ledger.ApplyTransfer(ctx, tx))

		assert.Equal(t, int64(70), balance(t, accounts, "p1"))
		assert.Equal(t, int64(130), balance(t, accounts, "p2"))

		loaded, err := ledger.GetByID(ctx, tx.ID())
		require.NoError(t, err)
		assert.Equal(t, int64(30), loaded.Amount().Coins())
	})

	t.Run("rejects an overdraft without side effects", func(t *testing.T) {
		accounts, ledger := setup(t)

		tx := makeTransfer(t, "11111111-1111-1111-1111-111111111111", "p1", "p2", 101)
		err := ledger.ApplyTransfer(ctx, tx)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsInsufficientFunds(err))

		assert.Equal(t, int64(100), balance(t, accounts, "p1"))
		assert.Equal(t, int64(100), balance(t, accounts, "p2"))

		_, err = ledger.GetByID(ctx, tx.ID())
		assert.True(t, pkgerrors.IsNotFound(err))

		history, err := ledger.GetByAccount(ctx, "p1")
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("rejects a duplicate transaction ID", func(t *testing.T) {
		accounts, ledger := setup(t)

		tx := makeTransfer(t, "11111111-1111-1111-1111-111111111111", "p1", "p2", 10)
		require.NoError(t, ledger.ApplyTransfer(ctx, tx))

		dup := makeTransfer(t, "11111111-1111-1111-1111-111111111111", "p1", "p2", 10)
		err := ledger.ApplyTransfer(ctx, dup)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsConflict(err))

		assert.Equal(t, int64(90), balance(t, accounts, "p1"), "the duplicate must not move coins again")
	})

	t.Run("rejects movements touching unknown accounts", func(t *testing.T) {
		accounts, ledger := setup(t)

		tx := makeTransfer(t, "11111111-1111-1111-1111-111111111111", "ghost", "p2", 10)
		err := ledger.ApplyTransfer(ctx, tx)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.Equal(t, int64(100), balance(t, accounts, "p2"))
	})
}

func saveNode(t *testing.T, repo *NodeRepository, creatorID, title string, parentID valueobjects.NodeID) *entities.Node {
	t.Helper()

	content, err := valueobjects.NewNodeContent(title, "")
	require.NoError(t, err)

	var node *entities.Node
	if parentID.IsZero() {
		node, err = entities.NewRootNode(valueobjects.NodeID{}, creatorID, content)
	} else {
		node, err = entities.NewChildNode(valueobjects.NodeID{}, creatorID, content, parentID)
	}
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), node))
	return node
}

func TestNodeRepositoryOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewNodeRepository()

	root := saveNode(t, repo, "p1", "a trunk", valueobjects.NodeID{})
	first := saveNode(t, repo, "p1", "first branch", root.ID())
	second := saveNode(t, repo, "p2", "second branch", root.ID())

	t.Run("children come back in creation order", func(t *testing.T) {
		children, err := repo.GetChildren(ctx, root.ID())
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.True(t, children[0].ID().Equals(first.ID()))
		assert.True(t, children[1].ID().Equals(second.ID()))
	})

	t.Run("feed comes back newest first", func(t *testing.T) {
		feed, err := repo.GetFeed(ctx, 0)
		require.NoError(t, err)
		require.Len(t, feed, 3)
		assert.True(t, feed[0].ID().Equals(second.ID()))
		assert.True(t, feed[2].ID().Equals(root.ID()))
	})

	t.Run("re-saving keeps the original position", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, root))

		feed, err := repo.GetFeed(ctx, 0)
		require.NoError(t, err)
		assert.True(t, feed[len(feed)-1].ID().Equals(root.ID()))
	})

	t.Run("creator listing is scoped and newest first", func(t *testing.T) {
		mine, err := repo.GetByCreator(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.True(t, mine[0].ID().Equals(first.ID()))
	})
}

func TestNodeRepositoryDeleteBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewNodeRepository()

	root := saveNode(t, repo, "p1", "a trunk", valueobjects.NodeID{})
	child := saveNode(t, repo, "p1", "a branch", root.ID())
	keep := saveNode(t, repo, "p2", "unrelated", valueobjects.NodeID{})

	require.NoError(t, repo.DeleteBatch(ctx, []valueobjects.NodeID{root.ID(), child.ID()}))

	_, err := repo.GetByID(ctx, root.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
	_, err = repo.GetByID(ctx, child.ID())
	assert.True(t, pkgerrors.IsNotFound(err))

	kept, err := repo.GetByID(ctx, keep.ID())
	require.NoError(t, err)
	assert.Equal(t, "unrelated", kept.Content().Title())
}
