package commands

import (
	"context"
	"strings"
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

type nodeTestEnv struct {
	accounts *memory.AccountRepository
	nodes    *memory.NodeRepository
	publish  *PublishNodeHandler
	branch   *BranchNodeHandler
	delete   *DeleteSubtreeHandler
}

func setupNodeTest(t *testing.T) *nodeTestEnv {
	t.Helper()

	accounts := memory.NewAccountRepository()
	nodes := memory.NewNodeRepository()
	publisher := messaging.NewNopPublisher(zap.NewNop())
	logger := zap.NewNop()

	env := &nodeTestEnv{
		accounts: accounts,
		nodes:    nodes,
		publish:  NewPublishNodeHandler(nodes, accounts, publisher, logger),
		branch:   NewBranchNodeHandler(nodes, accounts, publisher, logger),
		delete:   NewDeleteSubtreeHandler(nodes, publisher, logger),
	}

	for _, acct := range []struct{ id, username string }{
		{"creator", "alice"},
		{"other", "bob"},
	} {
		account, err := entities.NewAccount(acct.id, acct.username)
		require.NoError(t, err)
		require.NoError(t, accounts.Save(context.Background(), account))
	}
	return env
}

func (env *nodeTestEnv) publishRoot(t *testing.T, creatorID, title string) *entities.Node {
	t.Helper()

	node, err := env.publish.Handle(context.Background(), PublishNodeCommand{
		NodeID:    uuid.New().String(),
		CreatorID: creatorID,
		Title:     title,
	})
	require.NoError(t, err)
	return node
}

func (env *nodeTestEnv) branchFrom(t *testing.T, creatorID string, parent *entities.Node, title string) *entities.Node {
	t.Helper()

	node, err := env.branch.Handle(context.Background(), BranchNodeCommand{
		NodeID:    uuid.New().String(),
		CreatorID: creatorID,
		ParentID:  parent.ID().String(),
		Title:     title,
	})
	require.NoError(t, err)
	return node
}

func TestPublishNode(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a root node", func(t *testing.T) {
		env := setupNodeTest(t)

		node, err := env.publish.Handle(ctx, PublishNodeCommand{
			NodeID:    uuid.New().String(),
			CreatorID: "creator",
			Title:     "a trunk",
			Body:      "details",
		})
		require.NoError(t, err)

		assert.True(t, node.IsRoot())
		assert.Equal(t, "creator", node.CreatorID())

		stored, err := env.nodes.GetByID(ctx, node.ID())
		require.NoError(t, err)
		assert.Equal(t, "a trunk", stored.Content().Title())
	})

	t.Run("requires an existing creator account", func(t *testing.T) {
		env := setupNodeTest(t)

		_, err := env.publish.Handle(ctx, PublishNodeCommand{
			NodeID:    uuid.New().String(),
			CreatorID: "ghost",
			Title:     "a trunk",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("rejects an oversized title", func(t *testing.T) {
		env := setupNodeTest(t)

		_, err := env.publish.Handle(ctx, PublishNodeCommand{
			NodeID:    uuid.New().String(),
			CreatorID: "creator",
			Title:     strings.Repeat("x", MaxTitleLength+1),
		})
		assert.Error(t, err)
	})
}

func TestBranchNode(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches below the parent", func(t *testing.T) {
		env := setupNodeTest(t)
		root := env.publishRoot(t, "creator", "a trunk")

		child := env.branchFrom(t, "other", root, "a branch")
		assert.False(t, child.IsRoot())
		assert.True(t, child.ParentID().Equals(root.ID()))

		children, err := env.nodes.GetChildren(ctx, root.ID())
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.True(t, children[0].ID().Equals(child.ID()))
	})

	t.Run("fails when the parent does not exist", func(t *testing.T) {
		env := setupNodeTest(t)

		_, err := env.branch.Handle(ctx, BranchNodeCommand{
			NodeID:    uuid.New().String(),
			CreatorID: "creator",
			ParentID:  uuid.New().String(),
			Title:     "a branch",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestDeleteSubtree(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades over every descendant", func(t *testing.T) {
		env := setupNodeTest(t)

		// creator's trunk with a two-level subtree, one branch grown by
		// another account
		root := env.publishRoot(t, "creator", "a trunk")
		left := env.branchFrom(t, "creator", root, "left")
		right := env.branchFrom(t, "other", root, "right")
		leaf := env.branchFrom(t, "other", left, "leaf")
		survivor := env.publishRoot(t, "other", "unrelated")

		err := env.delete.Handle(ctx, DeleteSubtreeCommand{
			NodeID:  root.ID().String(),
			ActorID: "creator",
		})
		require.NoError(t, err)

		for _, gone := range []*entities.Node{root, left, right, leaf} {
			_, err := env.nodes.GetByID(ctx, gone.ID())
			assert.True(t, pkgerrors.IsNotFound(err))
		}

		feed, err := env.nodes.GetFeed(ctx, 0)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.True(t, feed[0].ID().Equals(survivor.ID()))
	})

	t.Run("only the creator may delete", func(t *testing.T) {
		env := setupNodeTest(t)
		root := env.publishRoot(t, "creator", "a trunk")

		err := env.delete.Handle(ctx, DeleteSubtreeCommand{
			NodeID:  root.ID().String(),
			ActorID: "other",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsForbidden(err))

		_, err = env.nodes.GetByID(ctx, root.ID())
		assert.NoError(t, err, "a rejected delete must leave the subtree intact")
	})

	t.Run("fails when the node does not exist", func(t *testing.T) {
		env := setupNodeTest(t)

		err := env.delete.Handle(ctx, DeleteSubtreeCommand{
			NodeID:  uuid.New().String(),
			ActorID: "creator",
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}
