package entities

import (
	"time"

	"universe-backend/domain/core/valueobjects"
	"universe-backend/domain/events"
	pkgerrors "universe-backend/pkg/errors"
)

// Node is the entity representing a single idea in the branching tree.
// A node with no parent is a root; a node with a parent extends exactly one
// other idea. Nodes are immutable after creation: there is no update or
// re-parenting operation, only subtree deletion.
type Node struct {
	id        valueobjects.NodeID
	creatorID string
	content   valueobjects.NodeContent
	parentID  valueobjects.NodeID // zero value means root
	createdAt time.Time

	// Domain events that occurred during this aggregate's lifetime
	events []events.DomainEvent
}

// NewRootNode creates a new root node (a fresh trunk of the idea tree).
// An ID may be supplied by the caller so the creating layer can report it
// back; pass the zero NodeID to have one generated.
func NewRootNode(id valueobjects.NodeID, creatorID string, content valueobjects.NodeContent) (*Node, error) {
	return newNode(id, creatorID, content, valueobjects.NodeID{})
}

// NewChildNode creates a new node branching from an existing parent. The
// caller is responsible for having resolved the parent; the tree stays
// acyclic because a child is always created after, and attached below, a
// node that already exists.
func NewChildNode(id valueobjects.NodeID, creatorID string, content valueobjects.NodeContent, parentID valueobjects.NodeID) (*Node, error) {
	if parentID.IsZero() {
		return nil, pkgerrors.NewValidationError("parent ID cannot be empty for a branch")
	}
	return newNode(id, creatorID, content, parentID)
}

func newNode(id valueobjects.NodeID, creatorID string, content valueobjects.NodeContent, parentID valueobjects.NodeID) (*Node, error) {
	if creatorID == "" {
		return nil, pkgerrors.NewValidationError("creator ID cannot be empty")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}
	if id.IsZero() {
		id = valueobjects.NewNodeID()
	}

	now := time.Now()
	node := &Node{
		id:        id,
		creatorID: creatorID,
		content:   content,
		parentID:  parentID,
		createdAt: now,
		events:    []events.DomainEvent{},
	}

	node.addEvent(events.NewNodeCreated(node.id, creatorID, parentID.String(), content.Title(), now))

	return node, nil
}

// ReconstructNode reconstructs a node from repository data with preserved
// identity and timestamp
func ReconstructNode(
	id valueobjects.NodeID,
	creatorID string,
	content valueobjects.NodeContent,
	parentID valueobjects.NodeID,
	createdAt time.Time,
) (*Node, error) {
	if creatorID == "" {
		return nil, pkgerrors.NewValidationError("creator ID cannot be empty")
	}
	if content.IsEmpty() {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}

	return &Node{
		id:        id,
		creatorID: creatorID,
		content:   content,
		parentID:  parentID,
		createdAt: createdAt,
		events:    []events.DomainEvent{},
	}, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// CreatorID returns the account that published the idea. The creator is set
// once at creation and never changes.
func (n *Node) CreatorID() string {
	return n.creatorID
}

// Content returns the node's content
func (n *Node) Content() valueobjects.NodeContent {
	return n.content
}

// ParentID returns the parent node ID; the zero NodeID for roots
func (n *Node) ParentID() valueobjects.NodeID {
	return n.parentID
}

// IsRoot reports whether the node is a trunk of the tree
func (n *Node) IsRoot() bool {
	return n.parentID.IsZero()
}

// CreatedAt returns when the node was created
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// GetUncommittedEvents returns all uncommitted domain events
func (n *Node) GetUncommittedEvents() []events.DomainEvent {
	return n.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (n *Node) MarkEventsAsCommitted() {
	n.events = []events.DomainEvent{}
}

// addEvent adds a domain event to the uncommitted list
func (n *Node) addEvent(event events.DomainEvent) {
	n.events = append(n.events, event)
}
