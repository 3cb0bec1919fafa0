package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"universe-backend/domain/core/valueobjects"
	"universe-backend/domain/events"
)

func mustContent(t *testing.T, title, body string) valueobjects.NodeContent {
	t.Helper()
	content, err := valueobjects.NewNodeContent(title, body)
	require.NoError(t, err)
	return content
}

func TestNewRootNode(t *testing.T) {
	node, err := NewRootNode(valueobjects.NodeID{}, "acct-1", mustContent(t, "a trunk", "body"))
	require.NoError(t, err)

	assert.True(t, node.IsRoot())
	assert.False(t, node.ID().IsZero())
	assert.Equal(t, "acct-1", node.CreatorID())

	uncommitted := node.GetUncommittedEvents()
	require.Len(t, uncommitted, 1)
	created, ok := uncommitted[0].(events.NodeCreated)
	require.True(t, ok)
	assert.Equal(t, node.ID().String(), created.GetAggregateID())
	assert.Empty(t, created.ParentID)

	node.MarkEventsAsCommitted()
	assert.Empty(t, node.GetUncommittedEvents())
}

func TestNewChildNode(t *testing.T) {
	parent, err := NewRootNode(valueobjects.NodeID{}, "acct-1", mustContent(t, "a trunk", ""))
	require.NoError(t, err)

	t.Run("attaches below the parent", func(t *testing.T) {
		child, err := NewChildNode(valueobjects.NodeID{}, "acct-2", mustContent(t, "a branch", ""), parent.ID())
		require.NoError(t, err)

		assert.False(t, child.IsRoot())
		assert.True(t, child.ParentID().Equals(parent.ID()))
	})

	t.Run("rejects a zero parent", func(t *testing.T) {
		_, err := NewChildNode(valueobjects.NodeID{}, "acct-2", mustContent(t, "a branch", ""), valueobjects.NodeID{})
		assert.Error(t, err)
	})
}

func TestNodeUsesSuppliedID(t *testing.T) {
	id := valueobjects.NewNodeID()
	node, err := NewRootNode(id, "acct-1", mustContent(t, "a trunk", ""))
	require.NoError(t, err)
	assert.True(t, node.ID().Equals(id))
}
