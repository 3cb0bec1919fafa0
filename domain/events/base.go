package events

import (
	"time"

	"universe-backend/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Node Events

// NodeCreated is raised when an idea is published or branched
type NodeCreated struct {
	BaseEvent
	NodeID    valueobjects.NodeID `json:"node_id"`
	CreatorID string              `json:"creator_id"`
	ParentID  string              `json:"parent_id,omitempty"`
	Title     string              `json:"title"`
}

// NewNodeCreated creates a NodeCreated event
func NewNodeCreated(nodeID valueobjects.NodeID, creatorID, parentID, title string, timestamp time.Time) NodeCreated {
	return NodeCreated{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:    nodeID,
		CreatorID: creatorID,
		ParentID:  parentID,
		Title:     title,
	}
}

// SubtreeDeleted is raised after an explicit cascading delete removed a node
// and all of its descendants
type SubtreeDeleted struct {
	BaseEvent
	RootNodeID   valueobjects.NodeID `json:"root_node_id"`
	DeletedCount int                 `json:"deleted_count"`
	ActorID      string              `json:"actor_id"`
}

// NewSubtreeDeleted creates a SubtreeDeleted event
func NewSubtreeDeleted(rootNodeID valueobjects.NodeID, deletedCount int, actorID string, timestamp time.Time) SubtreeDeleted {
	return SubtreeDeleted{
		BaseEvent: BaseEvent{
			AggregateID: rootNodeID.String(),
			EventType:   "node.subtree_deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		RootNodeID:   rootNodeID,
		DeletedCount: deletedCount,
		ActorID:      actorID,
	}
}

// Ledger Events

// CoinsMoved is raised after a transfer or tip has committed. It is emitted
// only for committed movements; a failed apply never produces an event.
type CoinsMoved struct {
	BaseEvent
	TransactionID string `json:"transaction_id"`
	SenderID      string `json:"sender_id"`
	RecipientID   string `json:"recipient_id"`
	Amount        int64  `json:"amount"`
	Kind          string `json:"kind"`
}

// NewCoinsMoved creates a CoinsMoved event
func NewCoinsMoved(transactionID, senderID, recipientID string, amount int64, kind string, timestamp time.Time) CoinsMoved {
	return CoinsMoved{
		BaseEvent: BaseEvent{
			AggregateID: transactionID,
			EventType:   "ledger.coins_moved",
			Timestamp:   timestamp,
			Version:     1,
		},
		TransactionID: transactionID,
		SenderID:      senderID,
		RecipientID:   recipientID,
		Amount:        amount,
		Kind:          kind,
	}
}

// Account Events

// AccountRegistered is raised when an account record is provisioned for a
// principal supplied by the identity provider
type AccountRegistered struct {
	BaseEvent
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

// NewAccountRegistered creates an AccountRegistered event
func NewAccountRegistered(accountID, username string, timestamp time.Time) AccountRegistered {
	return AccountRegistered{
		BaseEvent: BaseEvent{
			AggregateID: accountID,
			EventType:   "account.registered",
			Timestamp:   timestamp,
			Version:     1,
		},
		AccountID: accountID,
		Username:  username,
	}
}
