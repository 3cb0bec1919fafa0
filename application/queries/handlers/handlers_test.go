package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"universe-backend/application/queries"
	"universe-backend/domain/core/entities"
	"universe-backend/domain/core/valueobjects"
	"universe-backend/infrastructure/persistence/memory"
	pkgerrors "universe-backend/pkg/errors"
)

type queryTestEnv struct {
	accounts *memory.AccountRepository
	nodes    *memory.NodeRepository
	ledger   *memory.LedgerRepository
}

func setupQueryTest(t *testing.T) *queryTestEnv {
	t.Helper()

	accounts := memory.NewAccountRepository()
	env := &queryTestEnv{
		accounts: accounts,
		nodes:    memory.NewNodeRepository(),
		ledger:   memory.NewLedgerRepository(accounts),
	}

	for _, acct := range []struct{ id, username string }{
		{"p1", "alice"},
		{"p2", "bob"},
	} {
		account, err := entities.NewAccount(acct.id, acct.username)
		require.NoError(t, err)
		require.NoError(t, accounts.Save(context.Background(), account))
	}
	return env
}

func (env *queryTestEnv) addRoot(t *testing.T, creatorID, title string) *entities.Node {
	t.Helper()

	content, err := valueobjects.NewNodeContent(title, "")
	require.NoError(t, err)
	node, err := entities.NewRootNode(valueobjects.NodeID{}, creatorID, content)
	require.NoError(t, err)
	require.NoError(t, env.nodes.Save(context.Background(), node))
	return node
}

func (env *queryTestEnv) addChild(t *testing.T, creatorID string, parent *entities.Node, title string) *entities.Node {
	t.Helper()

	content, err := valueobjects.NewNodeContent(title, "")
	require.NoError(t, err)
	node, err := entities.NewChildNode(valueobjects.NodeID{}, creatorID, content, parent.ID())
	require.NoError(t, err)
	require.NoError(t, env.nodes.Save(context.Background(), node))
	return node
}

func (env *queryTestEnv) addTransfer(t *testing.T, id, senderID, recipientID string, coins int64) {
	t.Helper()

	amount, err := valueobjects.NewAmount(coins)
	require.NoError(t, err)
	tx, err := entities.NewTransaction(id, senderID, recipientID, amount, entities.KindTransfer)
	require.NoError(t, err)
	require.NoError(t, env.ledger.ApplyTransfer(context.Background(), tx))
}

func TestGetFeedHandler(t *testing.T) {
	ctx := context.Background()
	env := setupQueryTest(t)
	handler := NewGetFeedHandler(env.nodes, zap.NewNop())

	first := env.addRoot(t, "p1", "first")
	second := env.addRoot(t, "p2", "second")
	third := env.addRoot(t, "p1", "third")

	t.Run("returns newest first", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.GetFeedQuery{})
		require.NoError(t, err)
		require.Equal(t, 3, result.Total)

		assert.Equal(t, third.ID().String(), result.Nodes[0].ID)
		assert.Equal(t, second.ID().String(), result.Nodes[1].ID)
		assert.Equal(t, first.ID().String(), result.Nodes[2].ID)
	})

	t.Run("honors the limit", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.GetFeedQuery{Limit: 2})
		require.NoError(t, err)
		require.Equal(t, 2, result.Total)
		assert.Equal(t, third.ID().String(), result.Nodes[0].ID)
	})

	t.Run("rejects a limit above the cap", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.GetFeedQuery{Limit: queries.MaxFeedLimit + 1})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestGetNodeHandler(t *testing.T) {
	ctx := context.Background()
	env := setupQueryTest(t)
	handler := NewGetNodeHandler(env.nodes, zap.NewNop())

	root := env.addRoot(t, "p1", "a trunk")
	older := env.addChild(t, "p2", root, "older branch")
	newer := env.addChild(t, "p1", root, "newer branch")

	t.Run("returns the node with children in creation order", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.GetNodeQuery{NodeID: root.ID().String()})
		require.NoError(t, err)

		assert.Equal(t, root.ID().String(), result.Node.ID)
		assert.True(t, result.Node.IsRoot)
		require.Len(t, result.Children, 2)
		assert.Equal(t, older.ID().String(), result.Children[0].ID)
		assert.Equal(t, newer.ID().String(), result.Children[1].ID)
	})

	t.Run("fails for an unknown node", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.GetNodeQuery{NodeID: valueobjects.NewNodeID().String()})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestGetAccountHandler(t *testing.T) {
	ctx := context.Background()
	env := setupQueryTest(t)
	handler := NewGetAccountHandler(env.accounts, env.nodes, zap.NewNop())

	older := env.addRoot(t, "p1", "older idea")
	newer := env.addRoot(t, "p1", "newer idea")
	env.addRoot(t, "p2", "someone else's idea")

	t.Run("resolves by ID", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.GetAccountQuery{AccountID: "p1"})
		require.NoError(t, err)

		assert.Equal(t, "alice", result.Account.Username)
		assert.Equal(t, entities.StartingCoins, result.Account.Coins)
		require.Len(t, result.Nodes, 2)
		assert.Equal(t, newer.ID().String(), result.Nodes[0].ID)
		assert.Equal(t, older.ID().String(), result.Nodes[1].ID)
	})

	t.Run("resolves by username", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.GetAccountQuery{Username: "bob"})
		require.NoError(t, err)
		assert.Equal(t, "p2", result.Account.ID)
		assert.Len(t, result.Nodes, 1)
	})

	t.Run("rejects ambiguous input", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.GetAccountQuery{AccountID: "p1", Username: "alice"})
		assert.Error(t, err)
	})

	t.Run("fails for an unknown account", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.GetAccountQuery{Username: "nobody"})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestListTransactionsHandler(t *testing.T) {
	ctx := context.Background()
	env := setupQueryTest(t)
	handler := NewListTransactionsHandler(env.accounts, env.ledger, zap.NewNop())

	env.addTransfer(t, "11111111-1111-1111-1111-111111111111", "p1", "p2", 10)
	time.Sleep(time.Millisecond)
	env.addTransfer(t, "22222222-2222-2222-2222-222222222222", "p2", "p1", 5)

	t.Run("returns both sides of the ledger, newest first", func(t *testing.T) {
		result, err := handler.Handle(ctx, queries.ListTransactionsQuery{AccountID: "p1"})
		require.NoError(t, err)
		require.Equal(t, 2, result.Total)

		assert.Equal(t, "22222222-2222-2222-2222-222222222222", result.Transactions[0].ID)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", result.Transactions[1].ID)
	})

	t.Run("fails for an unknown account", func(t *testing.T) {
		_, err := handler.Handle(ctx, queries.ListTransactionsQuery{AccountID: "ghost"})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}
