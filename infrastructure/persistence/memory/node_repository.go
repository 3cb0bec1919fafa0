package memory

import (
	"context"
	"sort"
	"sync"

	"universe-backend/domain/core/entities"
	"universe-backend/domain/core/valueobjects"
	pkgerrors "universe-backend/pkg/errors"
)

type storedNode struct {
	node *entities.Node
	seq  uint64 // insertion order, drives feed and child ordering
}

// NodeRepository is an in-memory implementation of ports.NodeRepository
type NodeRepository struct {
	mu    sync.RWMutex
	nodes map[string]storedNode
	next  uint64
}

// NewNodeRepository creates an empty in-memory node repository
func NewNodeRepository() *NodeRepository {
	return &NodeRepository{
		nodes: make(map[string]storedNode),
	}
}

// Save persists a node
func (r *NodeRepository) Save(ctx context.Context, node *entities.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := node.ID().String()
	if existing, ok := r.nodes[key]; ok {
		r.nodes[key] = storedNode{node: node, seq: existing.seq}
		return nil
	}
	r.next++
	r.nodes[key] = storedNode{node: node, seq: r.next}
	return nil
}

// GetByID retrieves a node by ID
func (r *NodeRepository) GetByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.nodes[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return stored.node, nil
}

// GetChildren retrieves direct children in creation order
func (r *NodeRepository) GetChildren(ctx context.Context, parentID valueobjects.NodeID) ([]*entities.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.collect(func(s storedNode) bool {
		return !s.node.IsRoot() && s.node.ParentID().Equals(parentID)
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	return unwrap(matched), nil
}

// GetFeed retrieves the newest nodes first
func (r *NodeRepository) GetFeed(ctx context.Context, limit int) ([]*entities.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.collect(func(storedNode) bool { return true })
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return unwrap(matched), nil
}

// GetByCreator retrieves an account's nodes, newest first
func (r *NodeRepository) GetByCreator(ctx context.Context, creatorID string) ([]*entities.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.collect(func(s storedNode) bool { return s.node.CreatorID() == creatorID })
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })
	return unwrap(matched), nil
}

// DeleteBatch removes the given nodes
func (r *NodeRepository) DeleteBatch(ctx context.Context, nodeIDs []valueobjects.NodeID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range nodeIDs {
		delete(r.nodes, id.String())
	}
	return nil
}

// collect must be called with the lock held
func (r *NodeRepository) collect(keep func(storedNode) bool) []storedNode {
	matched := make([]storedNode, 0, len(r.nodes))
	for _, stored := range r.nodes {
		if keep(stored) {
			matched = append(matched, stored)
		}
	}
	return matched
}

func unwrap(stored []storedNode) []*entities.Node {
	nodes := make([]*entities.Node, 0, len(stored))
	for _, s := range stored {
		nodes = append(nodes, s.node)
	}
	return nodes
}
