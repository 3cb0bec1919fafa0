package ports

import (
	"context"

	"universe-backend/domain/core/entities"
	"universe-backend/domain/core/valueobjects"
	"universe-backend/domain/events"
)

// AccountRepository defines the interface for account persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type AccountRepository interface {
	// Save persists an account (create or update)
	Save(ctx context.Context, account *entities.Account) error

	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id string) (*entities.Account, error)

	// GetByUsername retrieves an account by its unique username
	GetByUsername(ctx context.Context, username string) (*entities.Account, error)

	// Exists reports whether an account with the given ID is present
	Exists(ctx context.Context, id string) (bool, error)
}

// NodeRepository defines the interface for idea tree persistence
type NodeRepository interface {
	// Save persists a node (create only; nodes are immutable after creation)
	Save(ctx context.Context, node *entities.Node) error

	// GetByID retrieves a node by its ID
	GetByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error)

	// GetChildren retrieves the direct children of a node in creation order
	GetChildren(ctx context.Context, parentID valueobjects.NodeID) ([]*entities.Node, error)

	// GetFeed retrieves the newest nodes first, up to limit. A limit of zero
	// means no bound.
	GetFeed(ctx context.Context, limit int) ([]*entities.Node, error)

	// GetByCreator retrieves all nodes published by an account, newest first
	GetByCreator(ctx context.Context, creatorID string) ([]*entities.Node, error)

	// DeleteBatch removes multiple nodes in a batch operation
	DeleteBatch(ctx context.Context, nodeIDs []valueobjects.NodeID) error
}

// LedgerRepository defines the interface for the append-only transaction
// record and the atomic balance movement that produces it
type LedgerRepository interface {
	// ApplyTransfer atomically debits the sender, credits the recipient and
	// appends the transaction record. Either all three happen or none do.
	// Returns an insufficient funds error when the sender's balance does not
	// cover the amount; balances and the record are untouched in that case.
	ApplyTransfer(ctx context.Context, tx *entities.Transaction) error

	// GetByAccount retrieves all transactions where the account is sender or
	// recipient, newest first
	GetByAccount(ctx context.Context, accountID string) ([]*entities.Transaction, error)

	// GetByID retrieves a single transaction record
	GetByID(ctx context.Context, id string) (*entities.Transaction, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching read models
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error
}
